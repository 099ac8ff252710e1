package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-timesheet/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	UserID    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *AttendanceRecord) error
	Upsert(ctx context.Context, a *AttendanceRecord) error
	InsertIfAbsent(ctx context.Context, rows []AttendanceRecord) (int64, error)
	FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error)
	FindAll(ctx context.Context, filter ListFilter) ([]AttendanceRecord, error)
	Update(ctx context.Context, a *AttendanceRecord) error
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

func (r *repository) Create(ctx context.Context, a *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Upsert(ctx context.Context, a *AttendanceRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"shift_id", "clock_in", "clock_out", "total_hours",
				"status", "notes", "source", "created_by", "updated_at",
			}),
		}).
		Create(a).Error
}

// InsertIfAbsent leaves days that already carry a record untouched and
// returns how many rows were written.
func (r *repository) InsertIfAbsent(ctx context.Context, rows []AttendanceRecord) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *repository) FindByUserAndDate(ctx context.Context, userID string, date time.Time) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]AttendanceRecord, error) {
	db := r.db.WithContext(ctx)
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		db = db.Where("date >= ?", filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		db = db.Where("date <= ?", filter.EndDate.Format("2006-01-02"))
	}

	var rows []AttendanceRecord
	err := db.Order("date DESC, user_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(a).Error
}
