package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
	StatusOnLeave = "on_leave"
)

const (
	SourceAdmin     = "ADMIN"
	SourceSelf      = "SELF"
	SourceLeaveSync = "LEAVE_SYNC"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusHalfDay, StatusOnLeave}

// AttendanceRecord is unique per (user_id, date). Clock values are local
// wall-clock HH:MM strings.
type AttendanceRecord struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_attendance_user_date"`
	Date       time.Time        `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_user_date;index"`
	ShiftID    *uuid.UUID       `gorm:"column:shift_id;type:uuid;index"`
	ClockIn    *string          `gorm:"column:clock_in;type:varchar(5)"`
	ClockOut   *string          `gorm:"column:clock_out;type:varchar(5)"`
	TotalHours *decimal.Decimal `gorm:"column:total_hours;type:numeric(5,2)"`
	Status     string           `gorm:"column:status;type:varchar(20);not null"`
	Notes      *string          `gorm:"column:notes;type:text"`
	Source     string           `gorm:"column:source;type:varchar(20);not null;default:'ADMIN'"`
	CreatedBy  *uuid.UUID       `gorm:"column:created_by;type:uuid"`
	CreatedAt  time.Time        `gorm:"column:created_at"`
	UpdatedAt  time.Time        `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}

func IsValidStatus(v string) bool {
	for _, s := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}
