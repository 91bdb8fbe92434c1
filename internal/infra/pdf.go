package infra

// pdf.go renders the printable order note with go-pdf/fpdf. A4 portrait:
//   - company header and order reference
//   - client / vendor / status block
//   - one row per line item (SKU, product, curve, units, subtotal)
//   - bold total

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarNotaPedidoPDF returns the PDF bytes of the order note. The pedido
// must carry its items with Producto and Curva preloaded; missing client or
// vendor render as placeholders.
func GenerarNotaPedidoPDF(p *model.Pedido, empresa string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Nota de pedido N° "+p.ID.String()), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, p.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Parties ──────────────────────────────────────────────────────────────
	cliente := "Cliente sin nombre"
	if p.Cliente != nil {
		cliente = p.Cliente.Nombre
	}
	vendedor := "Sin vendedor asignado"
	if p.Vendedor != nil {
		vendedor = p.Vendedor.Nombre
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, "Cliente:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-25, 6, tr(cliente), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, "Vendedor:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-25, 6, tr(vendedor), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, "Estado:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-25, 6, string(p.Estado), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Items header ─────────────────────────────────────────────────────────
	colSKU := contentW * 0.16
	colProd := contentW * 0.34
	colCurva := contentW * 0.22
	colUni := contentW * 0.10
	colSub := contentW * 0.18

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colSKU, 6, "SKU", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colProd, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCurva, 6, "Curva", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colUni, 6, "Unid.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 6, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range p.Items {
		sku, nombre := "-", "(producto eliminado)"
		if item.Producto != nil {
			sku, nombre = item.Producto.SKU, item.Producto.Nombre
		}
		if len([]rune(nombre)) > 34 {
			nombre = string([]rune(nombre)[:33]) + "..."
		}
		curva := "-"
		if item.Curva != nil {
			curva = fmt.Sprintf("%s x%d", item.Curva.Nombre, item.CurvaCount)
		}
		pdf.CellFormat(colSKU, 6, tr(sku), "", 0, "L", false, 0, "")
		pdf.CellFormat(colProd, 6, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCurva, 6, tr(curva), "", 0, "L", false, 0, "")
		pdf.CellFormat(colUni, 6, fmt.Sprintf("%d", item.Unidades()), "", 0, "R", false, 0, "")
		pdf.CellFormat(colSub, 6, "$"+item.SubtotalUSD.StringFixed(2), "", 1, "R", false, 0, "")
		if len(item.Cantidades) > 0 {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(colSKU, 5, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW-colSKU, 5, tr(detalleTalles(item.Cantidades)), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW-colSub, 7, "TOTAL USD:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 7, "$"+p.TotalUSD.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: write: %w", err)
	}
	return buf.Bytes(), nil
}

// detalleTalles renders "38:2 39:4 40:2" with sizes sorted.
func detalleTalles(m model.MapaTalles) string {
	talles := make([]string, 0, len(m))
	for t := range m {
		talles = append(talles, t)
	}
	sort.Strings(talles)
	partes := make([]string, 0, len(talles))
	for _, t := range talles {
		partes = append(partes, fmt.Sprintf("%s:%d", t, m[t]))
	}
	return strings.Join(partes, " ")
}
