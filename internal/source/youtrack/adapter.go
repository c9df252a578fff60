package youtrack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/nhle/worktimer/internal/model"
	"github.com/nhle/worktimer/internal/source"
)

const (
	issueFields    = "id,idReadable,customFields($type,name,value(id,name))"
	activityFields = "timestamp,author(name),field(id,name)"
	activityKind   = "CustomFieldCategory"
	meFields       = "id,login,fullName"
)

// defaultPageSize is the $top used when listing issues.
const defaultPageSize = 100

// Adapter implements source.Tracker for YouTrack.
type Adapter struct {
	client       *Client
	query        string
	stateFieldID string
	pageSize     int
	logger       *zap.Logger
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for per-request progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPageSize overrides the issue listing page size.
func WithPageSize(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// NewAdapter creates a YouTrack tracker adapter. query selects the
// watched issues and stateFieldID identifies the State field in
// issue activities.
func NewAdapter(
	baseURL string,
	token string,
	query string,
	stateFieldID string,
	opts ...Option,
) *Adapter {
	a := &Adapter{
		client:       NewClient(baseURL, token),
		query:        query,
		stateFieldID: stateFieldID,
		pageSize:     defaultPageSize,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ source.Tracker = (*Adapter)(nil)

// ValidateConnection verifies credentials by calling GET /api/users/me.
func (a *Adapter) ValidateConnection(ctx context.Context) (*source.User, error) {
	var me Me
	q := url.Values{"fields": {meFields}}
	if err := a.client.Get(ctx, "/api/users/me", q, &me); err != nil {
		return nil, fmt.Errorf("validating YouTrack connection: %w", err)
	}
	return &source.User{ID: me.ID, Login: me.Login, Name: me.FullName}, nil
}

// FetchStates lists the watched issues page by page and resolves the
// time of each issue's latest State change. Issues without a State
// field are left out.
func (a *Adapter) FetchStates(ctx context.Context) (*model.Snapshot, error) {
	issues, err := a.listIssues(ctx)
	if err != nil {
		return nil, err
	}

	snap := model.NewSnapshot()
	for _, issue := range issues {
		state, ok, err := stateOf(issue)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ts, err := a.lastStateChange(ctx, issue.ID)
		if err != nil {
			return nil, err
		}

		snap.Put(issue.ID, model.IssueState{
			ReadableID: issue.IDReadable,
			State:      state,
			Timestamp:  ts,
		})
	}

	a.logger.Info("fetched issue states", zap.Int("issues", snap.Len()))
	return snap, nil
}

// AddWorkItem posts a work item to the issue's time tracking.
func (a *Adapter) AddWorkItem(ctx context.Context, item model.WorkItem) error {
	path := fmt.Sprintf(
		"/api/issues/%s/timeTracking/workItems", url.PathEscape(item.IssueID),
	)

	body := WorkItemRequest{
		Date:     item.Date.UnixMilli(),
		Author:   Ref{ID: item.AuthorID},
		Duration: WorkItemDuration{Minutes: item.Minutes},
		Text:     item.Text,
	}
	if item.TypeID != "" {
		body.Type = &Ref{ID: item.TypeID}
	}

	var created WorkItem
	if err := a.client.Post(ctx, path, nil, body, &created); err != nil {
		return fmt.Errorf("adding work item to %s: %w", item.IssueID, err)
	}

	a.logger.Info("added work time",
		zap.String("issue", item.IssueID),
		zap.Int("minutes", item.Minutes),
		zap.String("work_item", created.ID),
	)
	return nil
}

// listIssues pages through GET /api/issues until a short page.
func (a *Adapter) listIssues(ctx context.Context) ([]Issue, error) {
	var all []Issue
	for skip := 0; ; skip += a.pageSize {
		q := url.Values{
			"fields": {issueFields},
			"query":  {a.query},
			"$top":   {strconv.Itoa(a.pageSize)},
			"$skip":  {strconv.Itoa(skip)},
		}

		var page []Issue
		if err := a.client.Get(ctx, "/api/issues", q, &page); err != nil {
			return nil, fmt.Errorf("listing issues: %w", err)
		}
		all = append(all, page...)

		if len(page) < a.pageSize {
			return all, nil
		}
	}
}

// lastStateChange returns the timestamp of the most recent activity on
// the State field, or 0 if there is none.
func (a *Adapter) lastStateChange(ctx context.Context, issueID string) (int64, error) {
	path := fmt.Sprintf("/api/issues/%s/activities", url.PathEscape(issueID))
	q := url.Values{
		"fields":     {activityFields},
		"categories": {activityKind},
	}

	var activities []Activity
	if err := a.client.Get(ctx, path, q, &activities); err != nil {
		return 0, fmt.Errorf("fetching activities for %s: %w", issueID, err)
	}
	a.logger.Debug("fetched activities", zap.String("issue", issueID))

	var last int64
	for _, act := range activities {
		if act.Field != nil && act.Field.ID == a.stateFieldID {
			last = act.Timestamp
		}
	}
	return last, nil
}

// stateOf returns the value name of the issue's State custom field.
func stateOf(issue Issue) (string, bool, error) {
	for _, f := range issue.CustomFields {
		if f.Type != stateFieldType {
			continue
		}

		var v *FieldValue
		if len(f.Value) > 0 {
			if err := json.Unmarshal(f.Value, &v); err != nil {
				return "", false, fmt.Errorf(
					"decoding State of %s: %w", issue.ID, err,
				)
			}
		}
		if v == nil {
			return "", true, nil
		}
		return v.Name, true, nil
	}
	return "", false, nil
}
