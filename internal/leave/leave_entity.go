package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	SessionFullDay    = "Full Day"
	SessionFirstHalf  = "First Half"
	SessionSecondHalf = "Second Half"
)

var LeaveTypes = []string{"Casual", "Privilege", "Sick", "Unpaid", "Compensatory"}

type LeaveRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user_dates"`

	StartDate time.Time       `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	EndDate   time.Time       `gorm:"type:date;not null;index:idx_leave_requests_user_dates"`
	LeaveType string          `gorm:"type:varchar(30);not null"`
	Session   string          `gorm:"type:varchar(20);not null;default:'Full Day'"`
	Reason    *string         `gorm:"type:text"`
	TotalDays decimal.Decimal `gorm:"type:numeric(5,1);not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time
	AdminNotes *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsTerminal reports whether the request has already been reviewed.
func (l LeaveRequest) IsTerminal() bool {
	return l.Status == StatusApproved || l.Status == StatusRejected
}

func IsHalfDay(session string) bool {
	return session == SessionFirstHalf || session == SessionSecondHalf
}
