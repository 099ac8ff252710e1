package leave

type CreateLeaveRequest struct {
	StartDate string  `json:"start_date" binding:"required,isodate"`
	EndDate   string  `json:"end_date" binding:"required,isodate"`
	LeaveType string  `json:"leave_type" binding:"required,oneof=Casual Privilege Sick Unpaid Compensatory"`
	Session   string  `json:"session" binding:"omitempty,oneof='Full Day' 'First Half' 'Second Half'"`
	Reason    *string `json:"reason" binding:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status     string  `json:"status" binding:"required,oneof=approved rejected"`
	AdminNotes *string `json:"admin_notes" binding:"omitempty,max=1000"`
}

type UpdateNotesRequest struct {
	AdminNotes *string `json:"admin_notes" binding:"required,max=1000"`
}

// ListFilter narrows GET /leave-calendar. UserID is only honoured for callers
// that may read every user's requests.
type ListFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

type LeaveRequestResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	LeaveType  string  `json:"leave_type"`
	Session    string  `json:"session"`
	Reason     *string `json:"reason"`
	TotalDays  float64 `json:"total_days"`
	Status     string  `json:"status"`
	ReviewedBy *string `json:"reviewed_by"`
	ReviewedAt *string `json:"reviewed_at"`
	AdminNotes *string `json:"admin_notes"`
	CreatedAt  string  `json:"created_at"`
}
