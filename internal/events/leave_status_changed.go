package events

import "time"

const (
	LeaveStatusChangedTopic     = "hr.leave.status.v1"
	LeaveStatusChangedEventType = "leave.status_changed"
)

// LeaveStatusChangedEvent is published after an admin reviews a leave request.
// Dates use the YYYY-MM-DD form.
type LeaveStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	UserID         string    `json:"user_id"`
	LeaveType      string    `json:"leave_type"`
	Session        string    `json:"session"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	ReviewedBy     string    `json:"reviewed_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
