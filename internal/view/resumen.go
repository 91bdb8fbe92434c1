package view

import (
	"fmt"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/report"

	"github.com/shopspring/decimal"
)

// ResumenInput is the order-like record an order card is rendered from.
// Cliente and Vendedor are optional links.
type ResumenInput struct {
	ID           string
	CreatedAt    time.Time
	TotalUSD     decimal.Decimal
	Cliente      *string
	Vendedor     *string
	Estado       string
	Estadisticas dto.EstadisticasPedido
}

// ResumenPedido projects an order into its summary card. It never fails:
// missing links render as placeholders.
func ResumenPedido(in ResumenInput) dto.ResumenPedidoView {
	titulo := report.NombreSinCliente
	if in.Cliente != nil && *in.Cliente != "" {
		titulo = *in.Cliente
	}
	vendedor := report.NombreSinVendedor
	if in.Vendedor != nil && *in.Vendedor != "" {
		vendedor = *in.Vendedor
	}
	return dto.ResumenPedidoView{
		ID:       in.ID,
		Titulo:   titulo,
		IDCorto:  IDCorto(in.ID),
		Vendedor: vendedor,
		Total:    Moneda(in.TotalUSD),
		Estado:   in.Estado,
		Fecha:    Fecha(in.CreatedAt),
		Calzados: LineaRubro(in.Estadisticas.Calzados),
		Prendas:  LineaRubro(in.Estadisticas.Prendas),
	}
}

// IDCorto keeps the last 8 characters of an id. Display only.
func IDCorto(id string) string {
	r := []rune(id)
	if len(r) <= 8 {
		return id
	}
	return string(r[len(r)-8:])
}

// Moneda formats a USD amount as "$150.00".
func Moneda(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func Fecha(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// LineaRubro renders "3 SKUs (12 unidades)".
func LineaRubro(r dto.RubroResumen) string {
	return fmt.Sprintf("%d SKUs (%d unidades)", r.SkusCount, r.CantidadTotal)
}
