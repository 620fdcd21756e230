package models

import "time"

// Status is the lifecycle status of a complaint. Transitions happen only
// through the complaint service, never by direct field assignment.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// Statuses lists every valid complaint status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Priority is the triage priority of a complaint.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Complaint is a citizen complaint document in the complaint store.
type Complaint struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      uint      `bson:"user_id" json:"user_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	Status      Status    `bson:"status" json:"status"`
	Priority    Priority  `bson:"priority" json:"priority"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Log actions recorded in complaint_logs.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
)

// ComplaintLog is an immutable audit record of a complaint lifecycle event.
// Every complaint creation and every status change produces exactly one entry.
type ComplaintLog struct {
	ID          string    `bson:"_id" json:"id"`
	ComplaintID string    `bson:"complaint_id" json:"complaint_id"`
	UserID      uint      `bson:"user_id" json:"user_id"`
	Action      string    `bson:"action" json:"action"`
	OldStatus   Status    `bson:"old_status,omitempty" json:"old_status,omitempty"`
	NewStatus   Status    `bson:"new_status,omitempty" json:"new_status,omitempty"`
	Comment     string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
