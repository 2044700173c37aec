package history

// Stack is the ordered entry list behind Memory together with the index of
// the current entry. Pushing from an earlier position truncates forward
// entries and hands them back so they can be disposed.
type Stack struct {
	entries []*Entry
	current int
}

// NewStack creates a stack holding a single initial entry.
func NewStack(initial *Entry) *Stack {
	initial.Index = 0
	return &Stack{entries: []*Entry{initial}}
}

// Current returns the current entry.
func (s *Stack) Current() *Entry {
	return s.entries[s.current]
}

// Push appends e after the current entry and returns the truncated forward
// entries.
func (s *Stack) Push(e *Entry) (disposed []*Entry) {
	disposed = append(disposed, s.entries[s.current+1:]...)
	s.entries = append(s.entries[:s.current+1:s.current+1], e)
	s.current = len(s.entries) - 1
	e.Index = s.current
	return disposed
}

// Replace swaps the current entry for e and returns the entry it replaced.
func (s *Stack) Replace(e *Entry) (replaced *Entry) {
	replaced = s.entries[s.current]
	e.Index = s.current
	s.entries[s.current] = e
	return replaced
}

// MoveTo makes the entry with key current.
func (s *Stack) MoveTo(key string) (*Entry, bool) {
	for i, e := range s.entries {
		if e.Key == key {
			s.current = i
			return e, true
		}
	}
	return nil, false
}

// Find returns the entry with key without moving.
func (s *Stack) Find(key string) (*Entry, bool) {
	for _, e := range s.entries {
		if e.Key == key {
			return e, true
		}
	}
	return nil, false
}

// At returns the entry at index i, or nil when out of range.
func (s *Stack) At(i int) *Entry {
	if i < 0 || i >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// Entries returns a copy of the entry list.
func (s *Stack) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// CurrentIndex returns the position of the current entry.
func (s *Stack) CurrentIndex() int {
	return s.current
}
