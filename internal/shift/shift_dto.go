package shift

type UpsertShiftRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required,isodate"`
	ShiftType string `json:"shift_type" binding:"required,oneof='General Shift' 'Second Shift'"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
}

type ListQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,isodate"`
	EndDate   string `form:"end_date" binding:"omitempty,isodate"`
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
}

type ShiftResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	ShiftType string  `json:"shift_type"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	CreatedBy *string `json:"created_by"`
	UpdatedBy *string `json:"updated_by"`
	UpdatedAt string  `json:"updated_at"`
}
