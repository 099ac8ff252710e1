package leavebalance

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	UserID        string
	FinancialYear string
}

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, b *LeaveBalance) error
	UpdateIfVersion(ctx context.Context, b *LeaveBalance, expectedVersion int) (bool, error)
	FindByKey(ctx context.Context, userID, leaveType, financialYear string) (*LeaveBalance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveBalance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GormTx(r.db, tx)}
}

// Upsert inserts the row or overwrites the quantities of the existing one and
// bumps its version.
func (r *repository) Upsert(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "leave_type"}, {Name: "financial_year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"opening_balance": gorm.Expr("EXCLUDED.opening_balance"),
				"availed":         gorm.Expr("EXCLUDED.availed"),
				"balance":         gorm.Expr("EXCLUDED.balance"),
				"lapse":           gorm.Expr("EXCLUDED.lapse"),
				"lapse_date":      gorm.Expr("EXCLUDED.lapse_date"),
				"updated_by":      gorm.Expr("EXCLUDED.updated_by"),
				"updated_at":      gorm.Expr("EXCLUDED.updated_at"),
				"version":         gorm.Expr("leave_balances.version + 1"),
			}),
		}).
		Create(b).Error
}

// UpdateIfVersion only touches the row when its version still equals
// expectedVersion.
func (r *repository) UpdateIfVersion(ctx context.Context, b *LeaveBalance, expectedVersion int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("user_id = ? AND leave_type = ? AND financial_year = ? AND version = ?",
			b.UserID, b.LeaveType, b.FinancialYear, expectedVersion).
		Updates(map[string]any{
			"opening_balance": b.OpeningBalance,
			"availed":         b.Availed,
			"balance":         b.Balance,
			"lapse":           b.Lapse,
			"lapse_date":      b.LapseDate,
			"updated_by":      b.UpdatedBy,
			"updated_at":      time.Now().UTC(),
			"version":         gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByKey(ctx context.Context, userID, leaveType, financialYear string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND leave_type = ? AND financial_year = ?", userID, leaveType, financialYear).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveBalance, error) {
	db := r.db.WithContext(ctx)
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.FinancialYear != "" {
		db = db.Where("financial_year = ?", filter.FinancialYear)
	}

	var balances []LeaveBalance
	err := db.
		Order("user_id ASC").
		Order("leave_type ASC").
		Order("financial_year DESC").
		Find(&balances).Error
	return balances, err
}
