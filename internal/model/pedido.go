package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pedido is a client's preorder. TotalUSD always equals the sum of its items'
// SubtotalUSD; the order service computes it.
type Pedido struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorID *uuid.UUID      `gorm:"type:uuid;index"`
	TotalUSD   decimal.Decimal `gorm:"column:total_usd;type:decimal(14,2);not null"`
	Estado     EstadoPedido    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt  time.Time       `gorm:"index"`

	Cliente  *Cliente     `gorm:"foreignKey:ClienteID"`
	Vendedor *Vendedor    `gorm:"foreignKey:VendedorID"`
	Items    []ItemPedido `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

func (p *Pedido) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ItemPedido is one line of a Pedido: CurvaCount curves (or plain units when
// no curve is referenced) of a single product.
type ItemPedido struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PedidoID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CurvaID    *uuid.UUID `gorm:"type:uuid;index"`
	CurvaCount int        `gorm:"column:curva_count;not null;default:1"`
	// Cantidades is the size → units breakdown of the line
	Cantidades  MapaTalles      `gorm:"type:jsonb;not null"`
	SubtotalUSD decimal.Decimal `gorm:"column:subtotal_usd;type:decimal(14,2);not null"`
	CreatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Curva    *Curva    `gorm:"foreignKey:CurvaID"`
}

func (ItemPedido) TableName() string { return "items_pedido" }

func (i *ItemPedido) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Unidades returns the number of units the line represents.
func (i ItemPedido) Unidades() int {
	if len(i.Cantidades) > 0 {
		return i.Cantidades.Total()
	}
	return i.CurvaCount * i.Curva.UnidadesPorCurva()
}
