package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Curva is a size-distribution template: ordering one curve of a product buys
// Talles[size] units of each size.
type Curva struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Nombre    string     `gorm:"not null"`
	Genero    string     `gorm:"not null;default:''"`
	Talles    MapaTalles `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (Curva) TableName() string { return "curvas" }

func (c *Curva) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// UnidadesPorCurva is the curve-unit factor used to price a line item.
func (c *Curva) UnidadesPorCurva() int {
	if c == nil {
		return 1
	}
	return c.Talles.Total()
}
