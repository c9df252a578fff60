package model

import "time"

// WorkItem is a duration of work attributed to an issue and an author.
type WorkItem struct {
	// IssueID is the tracker's internal issue ID.
	IssueID string

	// Date is the day the work is recorded for.
	Date time.Time

	// AuthorID is the tracker user the time is logged for.
	AuthorID string

	// Minutes is the already-rounded duration.
	Minutes int

	// TypeID is the work item type. Empty means the tracker default.
	TypeID string

	// Text is an optional description.
	Text string
}
