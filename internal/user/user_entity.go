package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the directory entry of a person known to the timesheet. Identities
// are issued elsewhere; the id matches the user_id claim of their token.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'employee'"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
