package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is unique per (user_id, leave_type, financial_year).
type LeaveBalance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	LeaveType     string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_leave_balances_key"`
	FinancialYear string    `gorm:"type:varchar(7);not null;uniqueIndex:uq_leave_balances_key"`

	OpeningBalance decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	Availed        decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`
	Lapse          *decimal.Decimal `gorm:"type:numeric(6,1)"`
	LapseDate      *time.Time       `gorm:"type:date"`
	Balance        decimal.Decimal  `gorm:"type:numeric(6,1);not null;default:0"`

	Version   int        `gorm:"not null;default:1"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// QuantityScale is the number of decimals the numeric(6,1) columns keep.
const QuantityScale = 1

// Quantity rounds v to the stored column scale. Rounding the inputs before
// the subtraction keeps the stored balance equal to the stored
// opening - availed - lapse.
func Quantity(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(QuantityScale)
}

// ComputeBalance is opening - availed - lapse, with a missing lapse read as 0.
func ComputeBalance(opening, availed decimal.Decimal, lapse *decimal.Decimal) decimal.Decimal {
	balance := opening.Sub(availed)
	if lapse != nil {
		balance = balance.Sub(*lapse)
	}
	return balance
}
