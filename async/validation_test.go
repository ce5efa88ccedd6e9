package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/fieldsync/async"
)

type spy struct {
	startCalls int
	stopCalls  [][]any
}

func (s *spy) start()           { s.startCalls++ }
func (s *spy) stop(errs ...any) { s.stopCalls = append(s.stopCalls, errs) }

func await(t *testing.T, p *async.Promise) (any, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return p.Await(ctx)
}

func TestValidate_RequiresPromise(t *testing.T) {
	s := &spy{}
	p, err := async.Validate(func() any { return nil }, s.start, s.stop)
	require.Error(t, err)
	assert.Nil(t, p)
	var te *async.TypeError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "promise")
	assert.Zero(t, s.startCalls)
	assert.Empty(t, s.stopCalls)

	var nilPromise *async.Promise
	_, err = async.Validate(func() any { return nilPromise }, s.start, s.stop)
	assert.Error(t, err)
	assert.Zero(t, s.startCalls)
}

func TestValidate_ResolveWithoutPayload(t *testing.T) {
	s := &spy{}
	fnCalled := false
	p, err := async.Validate(func() any {
		fnCalled = true
		return async.Resolved(nil)
	}, s.start, s.stop)
	require.NoError(t, err)
	assert.True(t, fnCalled)
	assert.Equal(t, 1, s.startCalls)

	_, err = await(t, p)
	require.NoError(t, err)
	require.Len(t, s.stopCalls, 1)
	assert.Empty(t, s.stopCalls[0], "stop receives no arguments on success")
	assert.Equal(t, async.Fulfilled, p.State())
}

func TestValidate_ResolveWithPayload(t *testing.T) {
	s := &spy{}
	p, err := async.Validate(func() any {
		return async.Resolved(map[string]any{"foo": "success"})
	}, s.start, s.stop)
	require.NoError(t, err)

	_, err = await(t, p)
	require.NoError(t, err)
	assert.Equal(t, 1, s.startCalls)
	require.Len(t, s.stopCalls, 1)
	assert.Empty(t, s.stopCalls[0])
}

func TestValidate_RejectWithoutPayload(t *testing.T) {
	s := &spy{}
	p, err := async.Validate(func() any { return async.RejectedWith(nil) }, s.start, s.stop)
	require.NoError(t, err)

	_, err = await(t, p)
	var rej *async.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Nil(t, rej.Reason)
	assert.Equal(t, 1, s.startCalls)
	require.Len(t, s.stopCalls, 1)
	assert.Equal(t, []any{nil}, s.stopCalls[0], "stop receives exactly one nil argument")
}

func TestValidate_RejectWithErrors(t *testing.T) {
	s := &spy{}
	errs := map[string]any{"foo": "error"}
	p, err := async.Validate(func() any { return async.RejectedWith(errs) }, s.start, s.stop)
	require.NoError(t, err)

	_, err = await(t, p)
	var rej *async.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, errs, rej.Reason)
	require.Len(t, s.stopCalls, 1)
	assert.Equal(t, []any{errs}, s.stopCalls[0])
	assert.Equal(t, async.Rejected, p.State())
}

func TestValidate_PendingUntilSettled(t *testing.T) {
	s := &spy{}
	inner := async.NewPromise()
	p, err := async.Validate(func() any { return inner }, s.start, s.stop)
	require.NoError(t, err)
	assert.Equal(t, async.Pending, p.State())
	assert.Empty(t, s.stopCalls)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	inner.Resolve("ok")
	inner.Reject("late") // ignored after settlement
	_, err = await(t, p)
	require.NoError(t, err)
	assert.Len(t, s.stopCalls, 1)
}

// chatty calls every callback it is given, twice.
type chatty struct{}

func (chatty) Then(onFulfilled func(any), onRejected func(any)) {
	onFulfilled("a")
	onRejected("b")
	onFulfilled("c")
	onRejected("d")
}

func TestValidate_ForeignThenableSettlesOnce(t *testing.T) {
	s := &spy{}
	p, err := async.Validate(func() any { return chatty{} }, s.start, s.stop)
	require.NoError(t, err)

	_, err = await(t, p)
	require.NoError(t, err)
	assert.Equal(t, 1, s.startCalls)
	require.Len(t, s.stopCalls, 1)
	assert.Empty(t, s.stopCalls[0])
	assert.Equal(t, async.Fulfilled, p.State())
}

func TestGo(t *testing.T) {
	boom := errors.New("boom")
	_, err := await(t, async.Go(func() (any, error) { return nil, boom }))
	assert.ErrorIs(t, err, boom)

	v, err := await(t, async.Go(func() (any, error) { return 5, nil }))
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestThenAfterSettlement(t *testing.T) {
	p := async.Resolved("v")
	var got any
	p.Then(func(v any) { got = v }, nil)
	assert.Equal(t, "v", got)
	assert.Equal(t, "fulfilled", p.State().String())
}
