package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog entry. SKU is unique across the catalog.
// Rubro is the reporting category ("calzados", "prendas", ...).
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SKU       string          `gorm:"column:sku;uniqueIndex;not null"`
	Nombre    string          `gorm:"index;not null"`
	Rubro     string          `gorm:"not null;index"`
	Linea     string          `gorm:"not null;default:''"`
	Genero    string          `gorm:"not null;default:''"`
	PrecioUSD decimal.Decimal `gorm:"column:precio_usd;type:decimal(12,2);not null"`
	Tier      Tier            `gorm:"type:varchar(20);not null;default:'bronce'"`
	// FechaDespacho is the expected dispatch date of a preorder item
	FechaDespacho *time.Time
	ImagenURL     *string `gorm:"column:imagen_url"`
	GamePlan      *bool
	CreatedAt     time.Time
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
