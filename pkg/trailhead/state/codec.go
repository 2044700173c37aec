// Package state encodes per-route state slots into the single value a history
// entry persists.
//
// The persisted value is an Envelope: one slot per match position plus the
// application's own navigation state. Serialized, the envelope is a map
// with the single reserved key constants.StateKey, so application state
// must not be a map using that key.
package state

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/BrandonKowalski/trailhead/pkg/trailhead/constants"
)

// encMode uses Core Deterministic Encoding so equal states produce equal bytes.
var encMode cbor.EncMode

// decMode decodes untyped maps as map[string]any rather than CBOR's default
// map[interface{}]interface{}.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("state: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("state: CBOR decoder initialization failed: " + err.Error())
	}
}

// Updater computes a slot's next value from its previous one (nil when
// absent). No merging is done; the returned value replaces the slot.
type Updater func(prev any) any

// Envelope is the reserved persisted-state structure.
type Envelope struct {
	Slots []any
	Value any
}

type body struct {
	Slots []any `cbor:"slots"`
	Value any   `cbor:"value,omitempty"`
}

// Encode builds an envelope holding a copy of slots.
func Encode(slots []any, value any) Envelope {
	return Envelope{Slots: copySlots(slots, len(slots)), Value: value}
}

// Decode reads an entry state. Values that are not envelopes are treated as
// plain application state with no slots.
func Decode(v any) Envelope {
	switch s := v.(type) {
	case nil:
		return Envelope{}
	case Envelope:
		return Encode(s.Slots, s.Value)
	case *Envelope:
		if s == nil {
			return Envelope{}
		}
		return Encode(s.Slots, s.Value)
	case map[string]any:
		raw, ok := s[constants.StateKey]
		if !ok {
			return Envelope{Value: v}
		}
		b, ok := raw.(map[string]any)
		if !ok {
			return Envelope{Value: v}
		}
		env := Envelope{Value: b["value"]}
		if slots, ok := b["slots"].([]any); ok {
			env.Slots = copySlots(slots, len(slots))
		}
		return env
	default:
		return Envelope{Value: v}
	}
}

// Slot returns the value at position i, or nil when unset.
func (e Envelope) Slot(i int) any {
	if i < 0 || i >= len(e.Slots) {
		return nil
	}
	return e.Slots[i]
}

// With returns a copy of e with slot i set to v, growing the slot array with
// nil entries as needed.
func (e Envelope) With(i int, v any) Envelope {
	n := len(e.Slots)
	if i >= n {
		n = i + 1
	}
	out := Envelope{Slots: copySlots(e.Slots, n), Value: e.Value}
	out.Slots[i] = v
	return out
}

// Apply resolves a value-or-updater against the current slot value.
func (e Envelope) Apply(i int, valueOrUpdater any) Envelope {
	switch fn := valueOrUpdater.(type) {
	case Updater:
		return e.With(i, fn(e.Slot(i)))
	case func(any) any:
		return e.With(i, fn(e.Slot(i)))
	default:
		return e.With(i, valueOrUpdater)
	}
}

// MarshalCBOR wraps the envelope under the reserved key.
func (e Envelope) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(map[string]body{
		constants.StateKey: {Slots: e.Slots, Value: e.Value},
	})
}

// Marshal encodes any entry state to CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR produced by Marshal into an untyped value.
func Unmarshal(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Clone copies v through its serialized form, the way a browser structured
// clones history state. Envelopes come back in map form; Decode reads both.
func Clone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

func copySlots(slots []any, n int) []any {
	if n == 0 {
		return nil
	}
	out := make([]any, n)
	copy(out, slots)
	return out
}
