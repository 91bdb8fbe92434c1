package report

import (
	"errors"
	"fmt"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"

	"github.com/shopspring/decimal"
)

// AggregationMismatch reports a per-dimension sum that does not reconcile to
// the grand total. It always means the rollup upstream is wrong.
type AggregationMismatch struct {
	Dimension string // perCliente | perVendedor | perRubro
	Metrica   string // totalPedidos | totalSKUs | totalCantidad | totalValorizado
	Esperado  string
	Obtenido  string
}

func (e *AggregationMismatch) Error() string {
	return fmt.Sprintf("agregación inconsistente: suma de %s.%s = %s, total = %s",
		e.Dimension, e.Metrica, e.Obtenido, e.Esperado)
}

// ErrSinEstadisticas is returned when there is no stats object to check.
var ErrSinEstadisticas = errors.New("estadísticas nulas")

// Conciliar checks that every dimension sums back to the grand totals.
// Money is compared on cents. SKU counts are not checked per client or
// vendor because one SKU can be ordered by many of them; per category they
// must add up since a product has exactly one category.
func Conciliar(s *dto.ReportStats) error {
	if s == nil {
		return ErrSinEstadisticas
	}
	totalCents := s.TotalValorizado.Round(2)

	var cPedidos, cCantidad, vPedidos, vCantidad, rSKUs, rCantidad int
	cValor, vValor, rValor := decimal.Zero, decimal.Zero, decimal.Zero
	for _, d := range s.PerCliente {
		cPedidos += d.TotalPedidos
		cCantidad += d.TotalCantidad
		cValor = cValor.Add(d.TotalValorizado)
	}
	for _, d := range s.PerVendedor {
		vPedidos += d.TotalPedidos
		vCantidad += d.TotalCantidad
		vValor = vValor.Add(d.TotalValorizado)
	}
	for _, r := range s.PerRubro {
		rSKUs += r.TotalSKUs
		rCantidad += r.TotalCantidad
		rValor = rValor.Add(r.TotalValorizado)
	}

	checks := []struct {
		dim, met   string
		got, total int
	}{
		{"perCliente", "totalPedidos", cPedidos, s.TotalPedidos},
		{"perCliente", "totalCantidad", cCantidad, s.TotalCantidad},
		{"perVendedor", "totalPedidos", vPedidos, s.TotalPedidos},
		{"perVendedor", "totalCantidad", vCantidad, s.TotalCantidad},
		{"perRubro", "totalSKUs", rSKUs, s.TotalSKUs},
		{"perRubro", "totalCantidad", rCantidad, s.TotalCantidad},
	}
	for _, c := range checks {
		if c.got != c.total {
			return &AggregationMismatch{
				Dimension: c.dim, Metrica: c.met,
				Esperado: fmt.Sprint(c.total), Obtenido: fmt.Sprint(c.got),
			}
		}
	}

	for _, c := range []struct {
		dim string
		got decimal.Decimal
	}{{"perCliente", cValor}, {"perVendedor", vValor}, {"perRubro", rValor}} {
		if !c.got.Round(2).Equal(totalCents) {
			return &AggregationMismatch{
				Dimension: c.dim, Metrica: "totalValorizado",
				Esperado: totalCents.StringFixed(2), Obtenido: c.got.Round(2).StringFixed(2),
			}
		}
	}
	return nil
}
