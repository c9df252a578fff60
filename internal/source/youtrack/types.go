package youtrack

import "encoding/json"

// stateFieldType is the $type of the State custom field on an issue.
const stateFieldType = "StateIssueCustomField"

// Issue is a single issue from GET /api/issues.
type Issue struct {
	ID           string        `json:"id"`
	IDReadable   string        `json:"idReadable"`
	CustomFields []CustomField `json:"customFields"`
}

// CustomField is one custom field of an issue. Value depends on the
// field type (object, array, number, string or null) and is left raw
// until the field is known to be a State field.
type CustomField struct {
	Type  string          `json:"$type"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// FieldValue is the value of an enum-like custom field.
type FieldValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Activity is one entry from GET /api/issues/{id}/activities.
type Activity struct {
	Timestamp int64         `json:"timestamp"`
	Author    *ActivityUser `json:"author"`
	Field     *ActivityRef  `json:"field"`
}

// ActivityUser is the author of an activity.
type ActivityUser struct {
	Name string `json:"name"`
}

// ActivityRef identifies the field an activity changed.
type ActivityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkItemRequest is the body of POST /api/issues/{id}/timeTracking/workItems.
type WorkItemRequest struct {
	Date     int64            `json:"date"`
	Author   Ref              `json:"author"`
	Duration WorkItemDuration `json:"duration"`
	Type     *Ref             `json:"type,omitempty"`
	Text     string           `json:"text,omitempty"`
}

// WorkItemDuration is a work item duration in minutes.
type WorkItemDuration struct {
	Minutes int `json:"minutes"`
}

// Ref references an entity by ID.
type Ref struct {
	ID string `json:"id"`
}

// WorkItem is the response to a work item creation.
type WorkItem struct {
	ID string `json:"id"`
}

// Me is the response from GET /api/users/me.
type Me struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"fullName"`
}

// ErrorResponse is the tracker's error body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
