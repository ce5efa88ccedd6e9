// Package i18n localizes the messages of configuration errors.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data fills "{key}" placeholders in the message (for example "component"
// or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "missing_store":
			msg = "ストアが指定されていません"
		case "missing_form":
			msg = "フォームの内側で作成する必要があります"
		case "missing_name":
			msg = "名前が指定されていません"
		case "missing_names":
			msg = "名前のリストが指定されていません"
		case "invalid_names":
			msg = "名前は空でない文字列のリストである必要があります ({detail})"
		case "with_ref_required":
			msg = "RenderedComponent には WithRef オプションが必要です"
		}
	default: // "en"
		switch code {
		case "missing_store":
			msg = "a store is required"
		case "missing_form":
			msg = "must be created inside a form"
		case "missing_name":
			msg = "no name provided"
		case "missing_names":
			msg = "no names provided"
		case "invalid_names":
			msg = "names must be a list of non-empty strings ({detail})"
		case "with_ref_required":
			msg = "RenderedComponent requires the WithRef option"
		}
	}
	if msg == "" {
		return code
	}
	return fill(msg, data)
}

func fill(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
