package view

import (
	"testing"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/report"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

// ─── ResumenPedido ───────────────────────────────────────────────────────────

func TestResumenPedido_Acme(t *testing.T) {
	v := ResumenPedido(ResumenInput{
		ID:        "abcdef0123456789",
		CreatedAt: time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC),
		TotalUSD:  decimal.RequireFromString("150"),
		Cliente:   ptr("Acme"),
		Estado:    "pendiente",
		Estadisticas: dto.EstadisticasPedido{
			Calzados: dto.RubroResumen{SkusCount: 3, CantidadTotal: 12},
			Prendas:  dto.RubroResumen{SkusCount: 1, CantidadTotal: 4},
		},
	})

	assert.Equal(t, "Acme", v.Titulo)
	assert.Equal(t, "23456789", v.IDCorto)
	assert.Equal(t, "abcdef0123456789", v.ID)
	assert.Equal(t, "Sin vendedor asignado", v.Vendedor)
	assert.Equal(t, "$150.00", v.Total)
	assert.Equal(t, "3 SKUs (12 unidades)", v.Calzados)
	assert.Equal(t, "1 SKUs (4 unidades)", v.Prendas)
	assert.Equal(t, "pendiente", v.Estado)
	assert.Equal(t, "09/03/2026", v.Fecha)
}

func TestResumenPedido_ConVendedor(t *testing.T) {
	v := ResumenPedido(ResumenInput{ID: "x", Vendedor: ptr("Ana Pérez")})
	assert.Equal(t, "Ana Pérez", v.Vendedor)
	assert.Equal(t, "Cliente sin nombre", v.Titulo)
	assert.Equal(t, "x", v.IDCorto)
	assert.Equal(t, "$0.00", v.Total)
	assert.Empty(t, v.Fecha)
}

// ─── Panel ───────────────────────────────────────────────────────────────────

func statsEjemplo() *dto.ReportStats {
	return &dto.ReportStats{
		TotalPedidos:    10,
		TotalSKUs:       25,
		TotalCantidad:   500,
		TotalValorizado: decimal.RequireFromString("12345.67"),
		PerCliente: map[string]dto.DimensionStats{
			"c1": {Nombre: "Acme", TotalPedidos: 4, TotalValorizado: decimal.RequireFromString("345.67")},
			"c2": {Nombre: "Beta", TotalPedidos: 6, TotalValorizado: decimal.RequireFromString("12000")},
		},
		PerVendedor: map[string]dto.DimensionStats{
			report.ClaveSinVendedor: {Nombre: report.NombreSinVendedor, TotalPedidos: 10, TotalValorizado: decimal.RequireFromString("12345.67")},
		},
		PerRubro: map[string]dto.RubroStats{
			"prendas":  {TotalSKUs: 5, TotalValorizado: decimal.RequireFromString("345.67")},
			"calzados": {TotalSKUs: 20, TotalValorizado: decimal.RequireFromString("12000")},
		},
	}
}

func TestPanel_GeneralCuatroTarjetas(t *testing.T) {
	p := Panel{Stats: statsEjemplo(), Titulo: "Temporada", Modo: report.AgrupacionGeneral}

	v, err := p.Render()
	require.NoError(t, err)
	g, ok := v.(VistaGeneral)
	require.True(t, ok)

	assert.Equal(t, "Temporada", g.Titulo)
	assert.Len(t, g.Tarjetas, 4)
	assert.Equal(t, "10", g.Tarjetas[0].Texto)
	assert.Equal(t, "25", g.Tarjetas[1].Texto)
	assert.Equal(t, "500", g.Tarjetas[2].Texto)
	assert.True(t, decimal.RequireFromString("12345.67").Equal(g.Tarjetas[3].Valor))

	otro := statsEjemplo()
	otro.PerCliente = nil
	otro.PerVendedor = map[string]dto.DimensionStats{"z": {Nombre: "Z"}}
	otro.PerRubro = nil
	v2, err := Panel{Stats: otro, Titulo: "Temporada"}.Render()
	require.NoError(t, err)
	assert.Equal(t, g, v2)
}

func TestPanel_CambioDeModoIdempotente(t *testing.T) {
	stats := statsEjemplo()
	modo := report.AgrupacionGeneral
	p := func() Panel {
		return Panel{
			Stats:        stats,
			Titulo:       "Temporada",
			Modo:         modo,
			OnCambioModo: func(m report.Agrupacion) { modo = m },
		}
	}

	antes, err := p().Render()
	require.NoError(t, err)

	p().CambiarModo(report.AgrupacionPorRubro)
	require.Equal(t, report.AgrupacionPorRubro, modo)
	rubros, err := p().Render()
	require.NoError(t, err)
	r, ok := rubros.(VistaPorRubro)
	require.True(t, ok)
	require.Len(t, r.Filas, 2)
	assert.Equal(t, "calzados", r.Filas[0].Rubro)

	p().CambiarModo(report.AgrupacionGeneral)
	despues, err := p().Render()
	require.NoError(t, err)
	assert.Equal(t, antes, despues)
}

func TestPanel_FilasOrdenadas(t *testing.T) {
	v, err := Panel{Stats: statsEjemplo(), Modo: report.AgrupacionPorCliente}.Render()
	require.NoError(t, err)
	c := v.(VistaPorCliente)
	require.Len(t, c.Filas, 2)
	assert.Equal(t, "Beta", c.Filas[0].Nombre)
	assert.Equal(t, "c1", c.Filas[1].ID)

	v, err = Panel{Stats: statsEjemplo(), Modo: report.AgrupacionPorVendedor}.Render()
	require.NoError(t, err)
	assert.Equal(t, report.AgrupacionPorVendedor, v.Agrupacion())
	assert.Equal(t, report.NombreSinVendedor, v.(VistaPorVendedor).Filas[0].Nombre)
}

func TestPanel_SinEstadisticas(t *testing.T) {
	_, err := Panel{Modo: report.AgrupacionGeneral}.Render()
	assert.ErrorIs(t, err, ErrSinEstadisticas)
}

func TestPanel_ModoDesconocido(t *testing.T) {
	_, err := Panel{Stats: statsEjemplo(), Modo: "porMes"}.Render()
	assert.Error(t, err)
}

func TestPanel_ExportarSoloInvocaCallback(t *testing.T) {
	llamadas := 0
	p := Panel{Stats: statsEjemplo(), OnExportar: func() { llamadas++ }}
	p.Exportar()
	assert.Equal(t, 1, llamadas)

	assert.NotPanics(t, func() { Panel{}.Exportar() })
	assert.NotPanics(t, func() { Panel{}.CambiarModo(report.AgrupacionPorRubro) })
}
