package report

import "time"

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

type MonthlyQuery struct {
	Month  int    `form:"month" binding:"required,min=1,max=12"`
	Year   int    `form:"year" binding:"required,min=2000,max=2100"`
	Format string `form:"format" binding:"omitempty,oneof=json csv xlsx"`
}

type ShiftAnalysisQuery struct {
	StartDate string `form:"start_date" binding:"required,isodate"`
	EndDate   string `form:"end_date" binding:"required,isodate"`
}

// MonthlyAttendanceRow is one (user, day) cell of the monthly report.
type MonthlyAttendanceRow struct {
	UserID           string    `db:"user_id" json:"user_id"`
	UserName         string    `db:"user_name" json:"user_name"`
	Date             time.Time `db:"date" json:"-"`
	Day              string    `db:"-" json:"date"`
	Status           string    `db:"status" json:"status"`
	AttendanceStatus *string   `db:"attendance_status" json:"attendance_status"`
	LeaveType        *string   `db:"leave_type" json:"leave_type"`
	ClockIn          *string   `db:"clock_in" json:"clock_in"`
	ClockOut         *string   `db:"clock_out" json:"clock_out"`
	TotalHours       *float64  `db:"total_hours" json:"total_hours"`
}

type ShiftAnalysisRow struct {
	Date      time.Time `db:"date" json:"-"`
	Day       string    `db:"-" json:"date"`
	ShiftType string    `db:"shift_type" json:"shift_type"`
	Rostered  int       `db:"rostered" json:"rostered"`
	Present   int       `db:"present" json:"present"`
	Absent    int       `db:"-" json:"absent"`
}
