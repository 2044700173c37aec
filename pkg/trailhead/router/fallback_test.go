package router

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackNone_RendersNothing(t *testing.T) {
	var calls atomic.Int32
	r := New(nil, appRoutes(&calls, nil), Options{Logger: quietLogger()})

	assert.False(t, r.Supported())
	assert.Nil(t, r.Snapshot())
	assert.Nil(t, r.Stack())
	assert.Nil(t, r.Scopes())

	out, err := r.Render()
	assert.NoError(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, wait(t, r.Navigate("/about", NavigateOptions{})), ErrUnsupported)
}

func TestFallbackStatic_MatchesOnceAndNeverNavigates(t *testing.T) {
	var calls atomic.Int32
	var logs bytes.Buffer
	r := New(nil, appRoutes(&calls, nil), Options{
		Fallback:    FallbackStatic,
		FallbackURL: "http://example.com/users/11?tab=posts",
		Logger:      slog.New(slog.NewJSONHandler(&logs, nil)),
	})

	loc := r.Snapshot()
	require.NotNil(t, loc)
	assert.Equal(t, staticKey, loc.Key)
	assert.Same(t, loc, r.Snapshot())
	assert.Equal(t, "11", r.Stack().Params().Get("id"))

	require.NoError(t, r.Load(context.Background()))
	out, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "A(U:user-11)", out)

	logs.Reset()
	assert.ErrorIs(t, wait(t, r.Navigate("/about", NavigateOptions{})), ErrUnsupported)
	assert.Contains(t, logs.String(), "navigate called without a navigation primitive")
	assert.Same(t, loc, r.Snapshot())

	unregister := r.Block(func() bool { return true })
	unregister()
	assert.Equal(t, 0, r.Blockers().Len(), "blocking is disabled without a navigation primitive")

	// Route state writes are rejected too.
	assert.ErrorIs(t, wait(t, r.Scopes()[1].SetState("x")), ErrUnsupported)
}

func TestFallbackStatic_InvalidURL(t *testing.T) {
	var calls atomic.Int32
	r := New(nil, appRoutes(&calls, nil), Options{
		Fallback:    FallbackStatic,
		FallbackURL: "http://[::1",
		Logger:      quietLogger(),
	})
	assert.Nil(t, r.Snapshot())
}
