package model

import "time"

// IssueState is the tracked state of one issue at snapshot time.
type IssueState struct {
	// ReadableID is the human-facing issue key (e.g. "PRJ-42").
	ReadableID string `json:"id_readable,omitempty"`

	// State is the name of the issue's State custom field value.
	State string `json:"state"`

	// Timestamp is the epoch-millisecond time of the most recent State
	// change, or 0 when the issue has no recorded State change.
	Timestamp int64 `json:"timestamp"`
}

// HasTimestamp reports whether a State change time is known.
func (s IssueState) HasTimestamp() bool {
	return s.Timestamp != 0
}

// ChangedAt returns Timestamp as a time.Time.
func (s IssueState) ChangedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Differs reports whether two entries are distinguishable. The readable
// ID is presentation only and does not count.
func (s IssueState) Differs(other IssueState) bool {
	return s.State != other.State || s.Timestamp != other.Timestamp
}

// Snapshot maps issue IDs to their state while remembering the order in
// which the tracker returned them.
type Snapshot struct {
	order  []string
	states map[string]IssueState
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{states: make(map[string]IssueState)}
}

// Put inserts or replaces the entry for id. Replacing keeps the
// original position.
func (s *Snapshot) Put(id string, st IssueState) {
	if _, ok := s.states[id]; !ok {
		s.order = append(s.order, id)
	}
	s.states[id] = st
}

// Get returns the entry for id.
func (s *Snapshot) Get(id string) (IssueState, bool) {
	if s == nil {
		return IssueState{}, false
	}
	st, ok := s.states[id]
	return st, ok
}

// IDs returns the issue IDs in insertion order.
func (s *Snapshot) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of issues.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Clone returns an independent copy.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	if s == nil {
		return c
	}
	for _, id := range s.order {
		c.Put(id, s.states[id])
	}
	return c
}
