// Package pathutil parses dotted/bracketed field paths such as
// "addresses[0].street" into key segments. Parsed results are memoized in a
// bounded LRU because every projection re-parses the same handful of paths.
package pathutil

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const _cacheSize = 1024

var cache *lru.Cache[string, []string]

func init() {
	c, err := lru.New[string, []string](_cacheSize)
	if err != nil {
		panic("pathutil: " + err.Error())
	}
	cache = c
}

// ToPath splits a path into segments. Bracket indices and quoted bracket keys
// become their own segments: `a.b[0]['c.d']` -> [a b 0 c.d]. An empty path
// yields no segments. The returned slice is owned by the caller.
func ToPath(path string) []string {
	if path == "" {
		return nil
	}
	if segs, ok := cache.Get(path); ok {
		return append([]string(nil), segs...)
	}
	segs := parse(path)
	cache.Add(path, segs)
	return append([]string(nil), segs...)
}

func parse(path string) []string {
	var (
		segs []string
		cur  strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i+1:], ']')
			if end < 0 {
				// unterminated bracket: keep the remainder literally
				cur.WriteString(path[i:])
				i = len(path)
				continue
			}
			inner := path[i+1 : i+1+end]
			if n := len(inner); n >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[n-1] == inner[0] {
				inner = inner[1 : n-1]
			}
			segs = append(segs, inner)
			i += end + 1
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return segs
}

// Index reports whether seg is a non-negative array index.
func Index(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Join renders segments back into dotted/bracket form, using brackets for
// index segments: [a 0 b] -> "a[0].b".
func Join(segs []string) string {
	b := &strings.Builder{}
	for i, s := range segs {
		if _, ok := Index(s); ok {
			b.WriteByte('[')
			b.WriteString(s)
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s)
	}
	return b.String()
}
