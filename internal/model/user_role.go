package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole links an external identity (UserID, issued by the auth provider)
// to a role. ClienteID is required for client-scoped roles.
type UserRole struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Role      Rol        `gorm:"column:role;type:varchar(30);not null"`
	ClienteID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (UserRole) TableName() string { return "user_roles" }

func (u *UserRole) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
