package view

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/report"

	"github.com/shopspring/decimal"
)

// ErrSinEstadisticas is a programming error: a panel always needs stats.
var ErrSinEstadisticas = errors.New("panel: estadísticas requeridas")

// ─── Views ───────────────────────────────────────────────────────────────────

// Vista is one of VistaGeneral, VistaPorCliente, VistaPorVendedor or
// VistaPorRubro. The set is closed: only this package implements it.
type Vista interface {
	Agrupacion() report.Agrupacion
	vista()
}

type Tarjeta struct {
	Clave    string          `json:"clave"`
	Etiqueta string          `json:"etiqueta"`
	Valor    decimal.Decimal `json:"valor"`
	Texto    string          `json:"texto"`
}

type VistaGeneral struct {
	Titulo   string     `json:"titulo"`
	Tarjetas [4]Tarjeta `json:"tarjetas"`
}

type FilaDimension struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"nombre"`
	TotalPedidos    int             `json:"totalPedidos"`
	TotalSKUs       int             `json:"totalSKUs"`
	TotalCantidad   int             `json:"totalCantidad"`
	TotalValorizado decimal.Decimal `json:"totalValorizado"`
}

type VistaPorCliente struct {
	Titulo string          `json:"titulo"`
	Filas  []FilaDimension `json:"filas"`
}

type VistaPorVendedor struct {
	Titulo string          `json:"titulo"`
	Filas  []FilaDimension `json:"filas"`
}

type FilaRubro struct {
	Rubro           string          `json:"rubro"`
	TotalSKUs       int             `json:"totalSKUs"`
	TotalCantidad   int             `json:"totalCantidad"`
	TotalValorizado decimal.Decimal `json:"totalValorizado"`
}

type VistaPorRubro struct {
	Titulo string      `json:"titulo"`
	Filas  []FilaRubro `json:"filas"`
}

func (VistaGeneral) Agrupacion() report.Agrupacion     { return report.AgrupacionGeneral }
func (VistaPorCliente) Agrupacion() report.Agrupacion  { return report.AgrupacionPorCliente }
func (VistaPorVendedor) Agrupacion() report.Agrupacion { return report.AgrupacionPorVendedor }
func (VistaPorRubro) Agrupacion() report.Agrupacion    { return report.AgrupacionPorRubro }

func (VistaGeneral) vista()     {}
func (VistaPorCliente) vista()  {}
func (VistaPorVendedor) vista() {}
func (VistaPorRubro) vista()    {}

// ─── Panel ───────────────────────────────────────────────────────────────────

// Panel is the reporting stats panel. It holds no state of its own: the
// selected mode and both callbacks belong to the caller, and every mode is
// rendered from the same Stats without refetching.
type Panel struct {
	Stats        *dto.ReportStats
	Titulo       string
	Modo         report.Agrupacion
	OnCambioModo func(report.Agrupacion)
	OnExportar   func()
}

// Render builds the view for the selected mode.
func (p Panel) Render() (Vista, error) {
	if p.Stats == nil {
		return nil, ErrSinEstadisticas
	}
	switch p.Modo {
	case report.AgrupacionGeneral, "":
		return General(p.Titulo, p.Stats), nil
	case report.AgrupacionPorCliente:
		return VistaPorCliente{Titulo: p.Titulo, Filas: filasDimension(p.Stats.PerCliente)}, nil
	case report.AgrupacionPorVendedor:
		return VistaPorVendedor{Titulo: p.Titulo, Filas: filasDimension(p.Stats.PerVendedor)}, nil
	case report.AgrupacionPorRubro:
		return VistaPorRubro{Titulo: p.Titulo, Filas: filasRubro(p.Stats.PerRubro)}, nil
	default:
		return nil, fmt.Errorf("panel: agrupación desconocida %q", p.Modo)
	}
}

// CambiarModo hands the new mode to the owner of the selection.
func (p Panel) CambiarModo(m report.Agrupacion) {
	if p.OnCambioModo != nil {
		p.OnCambioModo(m)
	}
}

// Exportar delegates the export of the displayed stats to the owner.
func (p Panel) Exportar() {
	if p.OnExportar != nil {
		p.OnExportar()
	}
}

// General builds the four headline cards. It reads only the grand totals.
func General(titulo string, s *dto.ReportStats) VistaGeneral {
	return VistaGeneral{
		Titulo: titulo,
		Tarjetas: [4]Tarjeta{
			entero("pedidos", "Total pedidos", s.TotalPedidos),
			entero("skus", "SKUs únicos", s.TotalSKUs),
			entero("cantidad", "Unidades", s.TotalCantidad),
			{Clave: "valorizado", Etiqueta: "Valorizado USD", Valor: s.TotalValorizado, Texto: Moneda(s.TotalValorizado)},
		},
	}
}

func entero(clave, etiqueta string, n int) Tarjeta {
	return Tarjeta{Clave: clave, Etiqueta: etiqueta, Valor: decimal.NewFromInt(int64(n)), Texto: strconv.Itoa(n)}
}

// Rows are sorted by value descending, then by name and key so equal inputs
// always render identically.
func filasDimension(m map[string]dto.DimensionStats) []FilaDimension {
	filas := make([]FilaDimension, 0, len(m))
	for id, d := range m {
		filas = append(filas, FilaDimension{
			ID:              id,
			Nombre:          d.Nombre,
			TotalPedidos:    d.TotalPedidos,
			TotalSKUs:       d.TotalSKUs,
			TotalCantidad:   d.TotalCantidad,
			TotalValorizado: d.TotalValorizado,
		})
	}
	sort.Slice(filas, func(i, j int) bool {
		a, b := filas[i], filas[j]
		if c := a.TotalValorizado.Cmp(b.TotalValorizado); c != 0 {
			return c > 0
		}
		if a.Nombre != b.Nombre {
			return a.Nombre < b.Nombre
		}
		return a.ID < b.ID
	})
	return filas
}

func filasRubro(m map[string]dto.RubroStats) []FilaRubro {
	filas := make([]FilaRubro, 0, len(m))
	for rubro, r := range m {
		filas = append(filas, FilaRubro{
			Rubro:           rubro,
			TotalSKUs:       r.TotalSKUs,
			TotalCantidad:   r.TotalCantidad,
			TotalValorizado: r.TotalValorizado,
		})
	}
	sort.Slice(filas, func(i, j int) bool {
		if c := filas[i].TotalValorizado.Cmp(filas[j].TotalValorizado); c != 0 {
			return c > 0
		}
		return filas[i].Rubro < filas[j].Rubro
	})
	return filas
}
