package report

import (
	"strings"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/shopspring/decimal"
)

const (
	ClaveSinVendedor  = "sin_vendedor"
	NombreSinVendedor = "Sin vendedor asignado"
	ClaveSinRubro     = "sin_rubro"
	NombreSinCliente  = "Cliente sin nombre"
)

// skuSet counts distinct SKUs.
type skuSet map[string]struct{}

func (s skuSet) add(k string) { s[k] = struct{}{} }

type acumDimension struct {
	stats dto.DimensionStats
	skus  skuSet
}

type acumRubro struct {
	stats dto.RubroStats
	skus  skuSet
}

// Agregar rolls orders up into a ReportStats. Orders must carry their items;
// Cliente, Vendedor and Items.Producto are read when preloaded and replaced by
// fallback buckets when absent. Client and vendor totals use the order total,
// category totals use the line subtotals, so Conciliar exposes orders whose
// stored total drifted from their lines.
func Agregar(pedidos []model.Pedido) *dto.ReportStats {
	stats := &dto.ReportStats{
		TotalValorizado: decimal.Zero,
		PerCliente:      map[string]dto.DimensionStats{},
		PerVendedor:     map[string]dto.DimensionStats{},
		PerRubro:        map[string]dto.RubroStats{},
	}
	skusTotales := skuSet{}
	clientes := map[string]*acumDimension{}
	vendedores := map[string]*acumDimension{}
	rubros := map[string]*acumRubro{}

	for _, p := range pedidos {
		cKey := p.ClienteID.String()
		cNombre := NombreSinCliente
		if p.Cliente != nil {
			cNombre = p.Cliente.Nombre
		}
		vKey, vNombre := ClaveSinVendedor, NombreSinVendedor
		if p.VendedorID != nil {
			vKey = p.VendedorID.String()
			if p.Vendedor != nil {
				vNombre = p.Vendedor.Nombre
			}
		}
		c := dimension(clientes, cKey, cNombre)
		v := dimension(vendedores, vKey, vNombre)

		stats.TotalPedidos++
		stats.TotalValorizado = stats.TotalValorizado.Add(p.TotalUSD)
		for _, d := range []*acumDimension{c, v} {
			d.stats.TotalPedidos++
			d.stats.TotalValorizado = d.stats.TotalValorizado.Add(p.TotalUSD)
		}

		for _, it := range p.Items {
			sku := claveSKU(it)
			unidades := it.Unidades()
			r := rubro(rubros, ClaveRubro(it.Producto))

			skusTotales.add(sku)
			stats.TotalCantidad += unidades
			for _, d := range []*acumDimension{c, v} {
				d.skus.add(sku)
				d.stats.TotalCantidad += unidades
			}
			r.skus.add(sku)
			r.stats.TotalCantidad += unidades
			r.stats.TotalValorizado = r.stats.TotalValorizado.Add(it.SubtotalUSD)
		}
	}

	stats.TotalSKUs = len(skusTotales)
	for k, d := range clientes {
		d.stats.TotalSKUs = len(d.skus)
		stats.PerCliente[k] = d.stats
	}
	for k, d := range vendedores {
		d.stats.TotalSKUs = len(d.skus)
		stats.PerVendedor[k] = d.stats
	}
	for k, r := range rubros {
		r.stats.TotalSKUs = len(r.skus)
		stats.PerRubro[k] = r.stats
	}
	return stats
}

// EstadisticasRubro computes the footwear/apparel split shown on an order card.
// Lines of any other category are not counted.
func EstadisticasRubro(items []model.ItemPedido) dto.EstadisticasPedido {
	calzados, prendas := skuSet{}, skuSet{}
	var out dto.EstadisticasPedido
	for _, it := range items {
		switch ClaveRubro(it.Producto) {
		case model.RubroCalzados:
			calzados.add(claveSKU(it))
			out.Calzados.CantidadTotal += it.Unidades()
		case model.RubroPrendas:
			prendas.add(claveSKU(it))
			out.Prendas.CantidadTotal += it.Unidades()
		}
	}
	out.Calzados.SkusCount = len(calzados)
	out.Prendas.SkusCount = len(prendas)
	return out
}

// ClaveRubro normalises a product category into its bucket key.
func ClaveRubro(p *model.Producto) string {
	if p == nil {
		return ClaveSinRubro
	}
	r := strings.ToLower(strings.TrimSpace(p.Rubro))
	if r == "" {
		return ClaveSinRubro
	}
	return r
}

// claveSKU identifies a line's product: its SKU, or the product id when the
// product was not loaded.
func claveSKU(it model.ItemPedido) string {
	if it.Producto != nil && it.Producto.SKU != "" {
		return it.Producto.SKU
	}
	return "id:" + it.ProductoID.String()
}

func dimension(m map[string]*acumDimension, key, nombre string) *acumDimension {
	d, ok := m[key]
	if !ok {
		d = &acumDimension{
			stats: dto.DimensionStats{Nombre: nombre, TotalValorizado: decimal.Zero},
			skus:  skuSet{},
		}
		m[key] = d
	}
	return d
}

func rubro(m map[string]*acumRubro, key string) *acumRubro {
	r, ok := m[key]
	if !ok {
		r = &acumRubro{stats: dto.RubroStats{TotalValorizado: decimal.Zero}, skus: skuSet{}}
		m[key] = r
	}
	return r
}
