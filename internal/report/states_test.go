package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/worktimer/internal/model"
	"github.com/nhle/worktimer/internal/worktime"
)

func TestStatesTable(t *testing.T) {
	snap := model.NewSnapshot()
	snap.Put("2-1", model.IssueState{ReadableID: "PRJ-1", State: "In Progress", Timestamp: 1_700_000_000_000})
	snap.Put("2-2", model.IssueState{State: "Open"})

	out := StatesTable(snap, worktime.DefaultRule())

	assert.Contains(t, out, "ISSUE")
	assert.Contains(t, out, "PRJ-1")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "2-2", "falls back to the internal ID")
	assert.Less(t, strings.Index(out, "PRJ-1"), strings.Index(out, "2-2"), "keeps snapshot order")
}
