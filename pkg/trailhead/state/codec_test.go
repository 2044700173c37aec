package state

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/constants"
)

func TestDecode_PlainValueHasNoSlots(t *testing.T) {
	env := Decode("app-state")
	assert.Nil(t, env.Slots)
	assert.Equal(t, "app-state", env.Value)
	assert.Nil(t, env.Slot(0))

	empty := Decode(nil)
	assert.Nil(t, empty.Value)
	assert.Nil(t, empty.Slot(3))
}

func TestEnvelope_WithGrowsAndCopies(t *testing.T) {
	base := Encode([]any{"a"}, nil)
	next := base.With(2, "c")

	assert.Equal(t, []any{"a"}, base.Slots)
	assert.Equal(t, []any{"a", nil, "c"}, next.Slots)
	assert.Nil(t, next.Slot(1))
	assert.Nil(t, next.Slot(-1))
}

func TestEnvelope_ApplyUpdater(t *testing.T) {
	env := Encode([]any{1}, "keep")

	var seen any
	next := env.Apply(0, Updater(func(prev any) any {
		seen = prev
		return prev.(int) + 1
	}))
	assert.Equal(t, 1, seen)
	assert.Equal(t, 2, next.Slot(0))
	assert.Equal(t, "keep", next.Value)

	next = next.Apply(1, func(prev any) any {
		assert.Nil(t, prev)
		return "fresh"
	})
	assert.Equal(t, "fresh", next.Slot(1))

	next = next.Apply(0, "plain")
	assert.Equal(t, "plain", next.Slot(0))
}

func TestClone_RoundTripsEnvelope(t *testing.T) {
	env := Encode([]any{"scroll", nil, "tab"}, "user")

	cloned, err := Clone(env)
	require.NoError(t, err)

	m, ok := cloned.(map[string]any)
	require.True(t, ok, "cloned envelope should be in map form")
	assert.Contains(t, m, constants.StateKey)

	back := Decode(cloned)
	assert.Equal(t, []any{"scroll", nil, "tab"}, back.Slots)
	assert.Equal(t, "user", back.Value)
}

func TestDecode_MapWithoutReservedKeyIsApplicationState(t *testing.T) {
	v := map[string]any{"filter": "open"}
	env := Decode(v)
	assert.Nil(t, env.Slots)
	assert.Equal(t, v, env.Value)
}

func TestMarshal_Deterministic(t *testing.T) {
	a, err := Marshal(map[string]any{"b": "2", "a": "1"})
	require.NoError(t, err)
	b, err := Marshal(map[string]any{"a": "1", "b": "2"})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))

	v, err := Unmarshal(a)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, v)
}
