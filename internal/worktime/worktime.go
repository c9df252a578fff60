// Package worktime detects qualifying State transitions between two
// snapshots and turns them into loggable durations.
package worktime

import (
	"math"
	"time"

	"github.com/nhle/worktimer/internal/model"
)

// Rule describes which transition is logged and how durations round.
type Rule struct {
	From         string
	To           string
	RoundingBase int
}

// DefaultRule logs In Progress -> To Verify rounded up to half hours.
func DefaultRule() Rule {
	return Rule{
		From:         model.DefaultFromState,
		To:           model.DefaultToState,
		RoundingBase: model.DefaultRoundingBase,
	}
}

// Transition is a qualifying State change of one issue.
type Transition struct {
	IssueID    string
	ReadableID string
	From       model.IssueState
	To         model.IssueState

	// Elapsed is the whole-minute time between the two State changes.
	Elapsed int

	// Minutes is Elapsed rounded up to the rule's base.
	Minutes int
}

// Started returns when the issue entered the From state.
func (t Transition) Started() time.Time { return t.From.ChangedAt() }

// Finished returns when the issue entered the To state.
func (t Transition) Finished() time.Time { return t.To.ChangedAt() }

// Label returns the readable ID if known, otherwise the internal one.
func (t Transition) Label() string {
	if t.ReadableID != "" {
		return t.ReadableID
	}
	return t.IssueID
}

// Skipped is an entry that changed in the right direction but could
// not be turned into a duration.
type Skipped struct {
	IssueID string
	Reason  string
}

// Result is the outcome of CompareStates.
type Result struct {
	Transitions []Transition
	Skipped     []Skipped
}

// CompareStates walks old in order and reports every issue whose entry
// changed and moved from rule.From to rule.To. Issues absent from next
// are ignored.
func CompareStates(old, next *model.Snapshot, rule Rule) Result {
	var res Result

	for _, id := range old.IDs() {
		before, _ := old.Get(id)
		after, ok := next.Get(id)
		if !ok || !before.Differs(after) {
			continue
		}
		if before.State != rule.From || after.State != rule.To {
			continue
		}

		if !before.HasTimestamp() || !after.HasTimestamp() {
			res.Skipped = append(res.Skipped, Skipped{
				IssueID: id,
				Reason:  "no recorded State change time",
			})
			continue
		}

		elapsed := ElapsedMinutes(before.Timestamp, after.Timestamp)
		readable := after.ReadableID
		if readable == "" {
			readable = before.ReadableID
		}

		res.Transitions = append(res.Transitions, Transition{
			IssueID:    id,
			ReadableID: readable,
			From:       before,
			To:         after,
			Elapsed:    elapsed,
			Minutes:    RoundUpDuration(elapsed, rule.RoundingBase),
		})
	}

	return res
}

// ElapsedMinutes returns the minutes between two epoch-millisecond
// timestamps. Both are first rounded to whole seconds; halves round to
// even at both steps.
func ElapsedMinutes(fromMs, toMs int64) int {
	from := math.RoundToEven(float64(fromMs) / 1000)
	to := math.RoundToEven(float64(toMs) / 1000)
	return int(math.RoundToEven((to - from) / 60))
}

// RoundUpDuration rounds minutes up to the next multiple of base.
// Values already on a multiple are unchanged. A non-positive base
// disables rounding.
func RoundUpDuration(minutes, base int) int {
	if base <= 0 {
		return minutes
	}
	return minutes + floorMod(base-minutes, base)
}

// floorMod is the modulo whose sign follows the divisor.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
