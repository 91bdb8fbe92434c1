package infra

import (
	"fmt"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/report"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/view"

	"github.com/xuri/excelize/v2"
)

const (
	HojaGeneral    = "General"
	HojaClientes   = "Clientes"
	HojaVendedores = "Vendedores"
	HojaRubros     = "Rubros"
)

// ExportarXLSX builds the report workbook: one sheet per grouping mode, rows
// in the same order the panel renders them.
func ExportarXLSX(stats *dto.ReportStats, titulo string) ([]byte, error) {
	if stats == nil {
		return nil, view.ErrSinEstadisticas
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HojaGeneral); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	for _, hoja := range []string{HojaClientes, HojaVendedores, HojaRubros} {
		if _, err := f.NewSheet(hoja); err != nil {
			return nil, fmt.Errorf("xlsx: new sheet %s: %w", hoja, err)
		}
	}
	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: style: %w", err)
	}

	// ── General ──────────────────────────────────────────────────────────────
	general := view.General(titulo, stats)
	filas := [][]any{{titulo}, {}}
	for _, t := range general.Tarjetas {
		var valor any = t.Valor.InexactFloat64()
		if t.Valor.IsInteger() {
			valor = t.Valor.IntPart()
		}
		filas = append(filas, []any{t.Etiqueta, valor})
	}
	if err := escribirFilas(f, HojaGeneral, filas); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(HojaGeneral, "A1", "A1", negrita)
	_ = f.SetColWidth(HojaGeneral, "A", "A", 28)

	// ── Clientes / Vendedores ────────────────────────────────────────────────
	encDim := []any{"Nombre", "Pedidos", "SKUs", "Unidades", "Valorizado USD"}
	porCliente, _ := view.Panel{Stats: stats, Modo: report.AgrupacionPorCliente}.Render()
	porVendedor, _ := view.Panel{Stats: stats, Modo: report.AgrupacionPorVendedor}.Render()
	for _, h := range []struct {
		hoja  string
		filas []view.FilaDimension
	}{
		{HojaClientes, porCliente.(view.VistaPorCliente).Filas},
		{HojaVendedores, porVendedor.(view.VistaPorVendedor).Filas},
	} {
		filas := [][]any{encDim}
		for _, d := range h.filas {
			filas = append(filas, []any{d.Nombre, d.TotalPedidos, d.TotalSKUs, d.TotalCantidad, d.TotalValorizado.InexactFloat64()})
		}
		if err := escribirFilas(f, h.hoja, filas); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(h.hoja, "A1", "E1", negrita)
		_ = f.SetColWidth(h.hoja, "A", "A", 32)
	}

	// ── Rubros ───────────────────────────────────────────────────────────────
	porRubro, _ := view.Panel{Stats: stats, Modo: report.AgrupacionPorRubro}.Render()
	filas = [][]any{{"Rubro", "SKUs", "Unidades", "Valorizado USD"}}
	for _, r := range porRubro.(view.VistaPorRubro).Filas {
		filas = append(filas, []any{r.Rubro, r.TotalSKUs, r.TotalCantidad, r.TotalValorizado.InexactFloat64()})
	}
	if err := escribirFilas(f, HojaRubros, filas); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(HojaRubros, "A1", "D1", negrita)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

func escribirFilas(f *excelize.File, hoja string, filas [][]any) error {
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		fila := fila
		if err := f.SetSheetRow(hoja, celda, &fila); err != nil {
			return fmt.Errorf("xlsx: %s fila %d: %w", hoja, i+1, err)
		}
	}
	return nil
}

// NombreArchivoXLSX is the download name of an export.
func NombreArchivoXLSX(titulo string) string {
	if titulo == "" {
		titulo = "reporte"
	}
	return fmt.Sprintf("%s.xlsx", sanitizarNombre(titulo))
}

func sanitizarNombre(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "reporte"
	}
	return string(out)
}
