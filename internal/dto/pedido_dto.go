package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// curva_count is capped at model.MaxCurvasPorItem; a size never exceeds
// MaxCurvasPorItem × model.MaxPesoTalle.
type ItemPedidoInsert struct {
	ProductoID string         `json:"producto_id" validate:"required,uuid"`
	CurvaID    *string        `json:"curva_id"    validate:"omitempty,uuid"`
	CurvaCount int            `json:"curva_count" validate:"required,min=1,max=10000"`
	Cantidades map[string]int `json:"cantidades"  validate:"omitempty,dive,keys,required,endkeys,min=0,max=10000000"`
}

// PedidoInsert is the checkout payload. ClienteID is only honoured for admins;
// client-scoped callers always order for their own client. TotalUSD is optional:
// when sent it must match the computed sum of the line subtotals.
type PedidoInsert struct {
	ID         *string            `json:"id"          validate:"omitempty,uuid"`
	ClienteID  *string            `json:"cliente_id"  validate:"omitempty,uuid"`
	VendedorID *string            `json:"vendedor_id" validate:"omitempty,uuid"`
	TotalUSD   *decimal.Decimal   `json:"total_usd"   validate:"omitempty,min=0"`
	Estado     *string            `json:"estado"      validate:"omitempty,oneof=pendiente confirmado despachado cancelado"`
	Items      []ItemPedidoInsert `json:"items"       validate:"required,min=1,dive"`
	CreatedAt  *time.Time         `json:"created_at"`
}

type PedidoUpdate struct {
	Estado     *string          `json:"estado"      validate:"omitempty,oneof=pendiente confirmado despachado cancelado"`
	VendedorID Opcional[string] `json:"vendedor_id"`
}

func (u PedidoUpdate) ValidarReglas() map[string]string {
	v := violaciones{}
	v.opcional("vendedor_id", u.VendedorID, "uuid")
	return v.mapa()
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type PedidoFilter struct {
	ClienteID  string `form:"cliente_id"  validate:"omitempty,uuid"`
	VendedorID string `form:"vendedor_id" validate:"omitempty,uuid"`
	Estado     string `form:"estado"      validate:"omitempty,oneof=pendiente confirmado despachado cancelado"`
	Desde      string `form:"desde"       validate:"omitempty,datetime=2006-01-02"`
	Hasta      string `form:"hasta"       validate:"omitempty,datetime=2006-01-02"` // inclusive
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	SKU            string          `json:"sku"`
	Producto       string          `json:"producto"`
	Rubro          string          `json:"rubro"`
	CurvaID        *string         `json:"curva_id"`
	Curva          *string         `json:"curva,omitempty"`
	CurvaCount     int             `json:"curva_count"`
	Cantidades     map[string]int  `json:"cantidades"`
	Unidades       int             `json:"unidades"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	SubtotalUSD    decimal.Decimal `json:"subtotal_usd"`
}

type PedidoResponse struct {
	ID           string               `json:"id"`
	ClienteID    string               `json:"cliente_id"`
	Cliente      *string              `json:"cliente,omitempty"`
	VendedorID   *string              `json:"vendedor_id"`
	Vendedor     *string              `json:"vendedor,omitempty"`
	TotalUSD     decimal.Decimal      `json:"total_usd"`
	Estado       string               `json:"estado"`
	Items        []ItemPedidoResponse `json:"items"`
	Estadisticas EstadisticasPedido   `json:"estadisticas"`
	CreatedAt    string               `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
