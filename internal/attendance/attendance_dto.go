package attendance

type UpsertAttendanceRequest struct {
	UserID     string   `json:"user_id" binding:"required,uuid"`
	Date       string   `json:"date" binding:"required,isodate"`
	ShiftID    *string  `json:"shift_id" binding:"omitempty,uuid"`
	ClockIn    *string  `json:"clock_in" binding:"omitempty,clock"`
	ClockOut   *string  `json:"clock_out" binding:"omitempty,clock"`
	TotalHours *float64 `json:"total_hours" binding:"omitempty,gte=0,lte=24"`
	Status     string   `json:"status" binding:"required,oneof=present absent half_day on_leave"`
	Notes      *string  `json:"notes" binding:"omitempty,max=500"`
}

type ListQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,isodate"`
	EndDate   string `form:"end_date" binding:"omitempty,isodate"`
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=present absent half_day on_leave"`
}

type ClockRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}

type AttendanceResponse struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Date       string   `json:"date"`
	ShiftID    *string  `json:"shift_id"`
	ClockIn    *string  `json:"clock_in"`
	ClockOut   *string  `json:"clock_out"`
	TotalHours *float64 `json:"total_hours"`
	Status     string   `json:"status"`
	Notes      *string  `json:"notes,omitempty"`
	Source     string   `json:"source"`
	UpdatedAt  string   `json:"updated_at"`
}
