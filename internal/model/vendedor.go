package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendedor is a sales representative. Clients and orders may point to one.
type Vendedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"not null"`
	Email     *string
	Telefono  *string
	CreatedAt time.Time
}

func (Vendedor) TableName() string { return "vendedores" }

func (v *Vendedor) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
