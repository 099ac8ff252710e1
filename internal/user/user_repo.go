package user

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context, activeOnly bool) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Upsert(ctx context.Context, u *User) error
	UpdateStatus(ctx context.Context, id string, isActive bool) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context, activeOnly bool) ([]User, error) {
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	var users []User
	err := db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return &u, err
}

func (r *repository) Upsert(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "is_active", "updated_at"}),
		}).
		Create(u).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id string, isActive bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("is_active", isActive)
	return res.RowsAffected == 1, res.Error
}
