package leavebalance

type UpsertLeaveBalanceRequest struct {
	UserID          string   `json:"user_id" binding:"required,uuid"`
	LeaveType       string   `json:"leave_type" binding:"required,max=50"`
	FinancialYear   string   `json:"financial_year" binding:"required"`
	OpeningBalance  float64  `json:"opening_balance" binding:"gte=0"`
	Availed         float64  `json:"availed" binding:"gte=0"`
	Lapse           *float64 `json:"lapse" binding:"omitempty,gte=0"`
	LapseDate       *string  `json:"lapse_date" binding:"omitempty,isodate"`
	ExpectedVersion *int     `json:"expected_version" binding:"omitempty,gte=1"`
}

type ListQuery struct {
	UserID        string `form:"user_id" binding:"omitempty,uuid"`
	FinancialYear string `form:"financial_year"`
}

type LeaveBalanceResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	LeaveType      string   `json:"leave_type"`
	FinancialYear  string   `json:"financial_year"`
	OpeningBalance float64  `json:"opening_balance"`
	Availed        float64  `json:"availed"`
	Lapse          *float64 `json:"lapse"`
	LapseDate      *string  `json:"lapse_date"`
	Balance        float64  `json:"balance"`
	Version        int      `json:"version"`
	UpdatedAt      string   `json:"updated_at"`
}
