package shift

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeGeneral = "General Shift"
	TypeSecond  = "Second Shift"
)

var ShiftTypes = []string{TypeGeneral, TypeSecond}

// ShiftRoster assigns one shift to a user for one day.
type ShiftRoster struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_shift_roster_user_date"`
	Date      time.Time  `gorm:"type:date;not null;uniqueIndex:uq_shift_roster_user_date;index"`
	ShiftType string     `gorm:"type:varchar(20);not null"`
	StartTime string     `gorm:"type:varchar(5);not null"`
	EndTime   string     `gorm:"type:varchar(5);not null"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ShiftRoster) TableName() string {
	return "shift_roster"
}

func IsValidShiftType(v string) bool {
	for _, t := range ShiftTypes {
		if t == v {
			return true
		}
	}
	return false
}
