package service

import (
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/report"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/view"

	"github.com/google/uuid"
)

func fechaISO(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func mapVendedor(v model.Vendedor) dto.VendedorResponse {
	return dto.VendedorResponse{
		ID:        v.ID.String(),
		Nombre:    v.Nombre,
		Email:     v.Email,
		Telefono:  v.Telefono,
		CreatedAt: fechaISO(v.CreatedAt),
	}
}

func mapCliente(c model.Cliente) dto.ClienteResponse {
	r := dto.ClienteResponse{
		ID:         c.ID.String(),
		Nombre:     c.Nombre,
		Tier:       string(c.Tier),
		VendedorID: idString(c.VendedorID),
		Email:      c.Email,
		CreatedAt:  fechaISO(c.CreatedAt),
	}
	if c.Vendedor != nil {
		nombre := c.Vendedor.Nombre
		r.VendedorNombre = &nombre
	}
	return r
}

func mapProducto(p model.Producto) dto.ProductoResponse {
	r := dto.ProductoResponse{
		ID:        p.ID.String(),
		SKU:       p.SKU,
		Nombre:    p.Nombre,
		Rubro:     p.Rubro,
		Linea:     p.Linea,
		Genero:    p.Genero,
		PrecioUSD: p.PrecioUSD,
		Tier:      string(p.Tier),
		ImagenURL: p.ImagenURL,
		GamePlan:  p.GamePlan != nil && *p.GamePlan,
	}
	if p.FechaDespacho != nil {
		f := p.FechaDespacho.Format("2006-01-02")
		r.FechaDespacho = &f
	}
	return r
}

func mapCurva(c model.Curva) dto.CurvaResponse {
	return dto.CurvaResponse{
		ID:            c.ID.String(),
		Nombre:        c.Nombre,
		Genero:        c.Genero,
		Talles:        c.Talles,
		TotalUnidades: c.Talles.Total(),
		CreatedAt:     fechaISO(c.CreatedAt),
	}
}

func mapUserRole(r model.UserRole) dto.UserRoleResponse {
	return dto.UserRoleResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Role:      string(r.Role),
		ClienteID: idString(r.ClienteID),
		CreatedAt: fechaISO(r.CreatedAt),
	}
}

func mapPedido(p model.Pedido) dto.PedidoResponse {
	r := dto.PedidoResponse{
		ID:           p.ID.String(),
		ClienteID:    p.ClienteID.String(),
		VendedorID:   idString(p.VendedorID),
		TotalUSD:     p.TotalUSD,
		Estado:       string(p.Estado),
		Items:        make([]dto.ItemPedidoResponse, 0, len(p.Items)),
		Estadisticas: report.EstadisticasRubro(p.Items),
		CreatedAt:    fechaISO(p.CreatedAt),
	}
	if p.Cliente != nil {
		n := p.Cliente.Nombre
		r.Cliente = &n
	}
	if p.Vendedor != nil {
		n := p.Vendedor.Nombre
		r.Vendedor = &n
	}
	for _, it := range p.Items {
		ir := dto.ItemPedidoResponse{
			ID:          it.ID.String(),
			ProductoID:  it.ProductoID.String(),
			CurvaID:     idString(it.CurvaID),
			CurvaCount:  it.CurvaCount,
			Cantidades:  it.Cantidades,
			Unidades:    it.Unidades(),
			SubtotalUSD: it.SubtotalUSD,
		}
		if it.Producto != nil {
			ir.SKU = it.Producto.SKU
			ir.Producto = it.Producto.Nombre
			ir.Rubro = it.Producto.Rubro
			ir.PrecioUnitario = it.Producto.PrecioUSD
		}
		if it.Curva != nil {
			n := it.Curva.Nombre
			ir.Curva = &n
		}
		r.Items = append(r.Items, ir)
	}
	return r
}

// resumenDe projects a loaded order into the summary card input.
func resumenDe(p model.Pedido) view.ResumenInput {
	in := view.ResumenInput{
		ID:           p.ID.String(),
		CreatedAt:    p.CreatedAt,
		TotalUSD:     p.TotalUSD,
		Estado:       string(p.Estado),
		Estadisticas: report.EstadisticasRubro(p.Items),
	}
	if p.Cliente != nil {
		n := p.Cliente.Nombre
		in.Cliente = &n
	}
	if p.Vendedor != nil {
		n := p.Vendedor.Nombre
		in.Vendedor = &n
	}
	return in
}
