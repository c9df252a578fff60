package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_KeepsInsertionOrder(t *testing.T) {
	s := NewSnapshot()
	s.Put("c", IssueState{State: "Open"})
	s.Put("a", IssueState{State: "Open"})
	s.Put("c", IssueState{State: "Done"})

	assert.Equal(t, []string{"c", "a"}, s.IDs())
	assert.Equal(t, 2, s.Len())

	st, ok := s.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "Done", st.State)
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	s := NewSnapshot()
	s.Put("a", IssueState{State: "Open", Timestamp: 1})

	c := s.Clone()
	c.Put("a", IssueState{State: "Done", Timestamp: 2})
	c.Put("b", IssueState{State: "Open"})

	st, _ := s.Get("a")
	assert.Equal(t, "Open", st.State)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestSnapshot_NilIsEmpty(t *testing.T) {
	var s *Snapshot
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
	assert.Empty(t, s.IDs())
	assert.Zero(t, s.Clone().Len())
}

func TestIssueState_Differs(t *testing.T) {
	base := IssueState{ReadableID: "PRJ-1", State: "Open", Timestamp: 10}

	assert.False(t, base.Differs(IssueState{ReadableID: "PRJ-2", State: "Open", Timestamp: 10}))
	assert.True(t, base.Differs(IssueState{State: "Done", Timestamp: 10}))
	assert.True(t, base.Differs(IssueState{State: "Open", Timestamp: 11}))
	assert.False(t, IssueState{}.HasTimestamp())
}
