package dto

import "github.com/shopspring/decimal"

// ─── Report statistics ───────────────────────────────────────────────────────

// ReportStats is the pre-aggregated snapshot every reporting view reads from.
// perCliente, perVendedor and perRubro each reconcile to the grand totals.
type ReportStats struct {
	TotalPedidos    int                       `json:"totalPedidos"`
	TotalSKUs       int                       `json:"totalSKUs"`
	TotalCantidad   int                       `json:"totalCantidad"`
	TotalValorizado decimal.Decimal           `json:"totalValorizado"`
	PerCliente      map[string]DimensionStats `json:"perCliente"`
	PerVendedor     map[string]DimensionStats `json:"perVendedor"`
	PerRubro        map[string]RubroStats     `json:"perRubro"`
}

// DimensionStats is the rollup of one client or one vendor.
type DimensionStats struct {
	Nombre          string          `json:"nombre"`
	TotalPedidos    int             `json:"totalPedidos"`
	TotalSKUs       int             `json:"totalSKUs"`
	TotalCantidad   int             `json:"totalCantidad"`
	TotalValorizado decimal.Decimal `json:"totalValorizado"`
}

// RubroStats is the rollup of one product category.
type RubroStats struct {
	TotalSKUs       int             `json:"totalSKUs"`
	TotalCantidad   int             `json:"totalCantidad"`
	TotalValorizado decimal.Decimal `json:"totalValorizado"`
}

// RubroResumen is the per-category line shown on an order card.
type RubroResumen struct {
	SkusCount     int `json:"skusCount"`
	CantidadTotal int `json:"cantidadTotal"`
}

// EstadisticasPedido holds the footwear/apparel split of a single order.
type EstadisticasPedido struct {
	Calzados RubroResumen `json:"calzados"`
	Prendas  RubroResumen `json:"prendas"`
}

// ─── Filters / Requests ──────────────────────────────────────────────────────

type ReporteFilter struct {
	Agrupacion string `form:"agrupacion,default=general" json:"agrupacion"  validate:"omitempty,oneof=general perClient perVendor perCategory"`
	Titulo     string `form:"titulo"                     json:"titulo"      validate:"max=120"`
	Desde      string `form:"desde"                      json:"desde"       validate:"omitempty,datetime=2006-01-02"`
	Hasta      string `form:"hasta"                      json:"hasta"       validate:"omitempty,datetime=2006-01-02"`
	ClienteID  string `form:"cliente_id"                 json:"cliente_id"  validate:"omitempty,uuid"`
	VendedorID string `form:"vendedor_id"                json:"vendedor_id" validate:"omitempty,uuid"`
	Estado     string `form:"estado"                     json:"estado"      validate:"omitempty,oneof=pendiente confirmado despachado cancelado"`
	// IncluirCancelados keeps "cancelado" orders in the rollup when no Estado is given
	IncluirCancelados bool `form:"incluir_cancelados" json:"incluir_cancelados"`
}

// ExportarEmailRequest: Email defaults to the caller's token email.
type ExportarEmailRequest struct {
	Email  string        `json:"email"  validate:"omitempty,email"`
	Filtro ReporteFilter `json:"filtro"`
}

// ─── View models ─────────────────────────────────────────────────────────────

// ResumenPedidoView is the rendered order summary card.
type ResumenPedidoView struct {
	ID       string `json:"id"`
	Titulo   string `json:"titulo"`
	IDCorto  string `json:"id_corto"`
	Vendedor string `json:"vendedor"`
	Total    string `json:"total"`
	Estado   string `json:"estado"`
	Fecha    string `json:"fecha"`
	Calzados string `json:"calzados"`
	Prendas  string `json:"prendas"`
}
