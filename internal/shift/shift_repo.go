package shift

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
}

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	Upsert(ctx context.Context, s *ShiftRoster) error
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*ShiftRoster, error)
	FindAll(ctx context.Context, filter ListFilter) ([]ShiftRoster, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert keeps created_by of an existing row and records the caller in
// updated_by.
func (r *repository) Upsert(ctx context.Context, s *ShiftRoster) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"shift_type", "start_time", "end_time", "updated_by", "updated_at"}),
		}).
		Create(s).Error
}

// FindByUserAndDate returns nil without error when no shift is rostered.
func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*ShiftRoster, error) {
	var s ShiftRoster
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date.Format("2006-01-02")).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]ShiftRoster, error) {
	db := r.db.WithContext(ctx)
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.StartDate != nil {
		db = db.Where("date >= ?", filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		db = db.Where("date <= ?", filter.EndDate.Format("2006-01-02"))
	}

	var shifts []ShiftRoster
	err := db.Order("date ASC").Order("user_id ASC").Find(&shifts).Error
	return shifts, err
}
