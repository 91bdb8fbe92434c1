package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is a wholesale customer. VendedorID is optional; when present it
// must reference an existing Vendedor.
type Cliente struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Nombre     string     `gorm:"not null"`
	Tier       Tier       `gorm:"type:varchar(20);not null;default:'bronce'"`
	VendedorID *uuid.UUID `gorm:"type:uuid;index"`
	Email      *string
	CreatedAt  time.Time

	Vendedor *Vendedor `gorm:"foreignKey:VendedorID"`
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
