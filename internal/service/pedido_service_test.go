package service

import (
	"context"
	"testing"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func (f *fixture) producto(sku, rubro, precio string, tier model.Tier) *model.Producto {
	p := &model.Producto{SKU: sku, Nombre: "Producto " + sku, Rubro: rubro, PrecioUSD: decimal.RequireFromString(precio), Tier: tier}
	_ = f.productos.Create(context.Background(), p)
	return p
}

func (f *fixture) curva(talles model.MapaTalles) *model.Curva {
	c := &model.Curva{Nombre: "Run", Talles: talles}
	_ = f.curvas.Create(context.Background(), c)
	return c
}

func TestCrearPedido_CurvaDeDoceUnidades(t *testing.T) {
	f := newFixture()
	ana := &model.Vendedor{Nombre: "Ana"}
	require.NoError(t, f.vendedores.Create(context.Background(), ana))
	user, cliente := f.usuarioCliente("Acme", model.TierOro, ana)
	zapa := f.producto("ZAP-1", "calzados", "20.00", model.TierPlata)
	curva := f.curva(model.MapaTalles{"S": 1, "M": 2, "L": 1})

	resp, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: zapa.ID.String(), CurvaID: strPtr(curva.ID.String()), CurvaCount: 3}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	it := resp.Items[0]
	assert.Equal(t, map[string]int{"S": 3, "M": 6, "L": 3}, it.Cantidades)
	assert.Equal(t, 12, it.Unidades)
	assert.Equal(t, "240.00", it.SubtotalUSD.StringFixed(2))
	assert.Equal(t, "240.00", resp.TotalUSD.StringFixed(2))
	assert.Equal(t, cliente.ID.String(), resp.ClienteID)
	assert.Equal(t, "pendiente", resp.Estado)

	// Vendor inherited from the client
	require.NotNil(t, resp.VendedorID)
	assert.Equal(t, ana.ID.String(), *resp.VendedorID)
	assert.Equal(t, "Ana", *resp.Vendedor)

	assert.Equal(t, dto.RubroResumen{SkusCount: 1, CantidadTotal: 12}, resp.Estadisticas.Calzados)

	require.Len(t, f.eventos.eventos, 1)
	assert.Equal(t, infra.EventoPedidoCreado, f.eventos.eventos[0].Tipo)
	assert.Equal(t, resp.ID, f.eventos.eventos[0].Key)
}

func TestCrearPedido_TotalIgualASumaDeSubtotales(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierPlatino, nil)
	a := f.producto("A", "calzados", "19.99", model.TierBronce)
	b := f.producto("B", "prendas", "7.35", model.TierOro)
	curva := f.curva(model.MapaTalles{"38": 1, "39": 2, "40": 2, "41": 1})

	resp, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{
			{ProductoID: a.ID.String(), CurvaID: strPtr(curva.ID.String()), CurvaCount: 2},
			{ProductoID: b.ID.String(), CurvaCount: 5},
			{ProductoID: a.ID.String(), CurvaCount: 1, Cantidades: map[string]int{"40": 1}},
		},
	})
	require.NoError(t, err)

	suma := decimal.Zero
	for _, it := range resp.Items {
		suma = suma.Add(it.SubtotalUSD)
	}
	assert.True(t, resp.TotalUSD.Equal(suma))
	assert.Equal(t, "296.62", resp.TotalUSD.StringFixed(2))
	assert.Nil(t, resp.VendedorID)
}

func TestCrearPedido_TotalInconsistente(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	a := f.producto("A", "calzados", "10.00", model.TierBronce)
	enviado := decimal.RequireFromString("99.00")

	_, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		TotalUSD: &enviado,
		Items:    []dto.ItemPedidoInsert{{ProductoID: a.ID.String(), CurvaCount: 2}},
	})
	assert.ErrorIs(t, err, ErrTotalInconsistente)
	assert.Empty(t, f.pedidos.rows)
}

func TestCrearPedido_DesgloseQueNoSumaLaCurva(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	a := f.producto("A", "calzados", "10.00", model.TierBronce)
	curva := f.curva(model.MapaTalles{"S": 1, "M": 2, "L": 1})

	_, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{
			ProductoID: a.ID.String(), CurvaID: strPtr(curva.ID.String()), CurvaCount: 3,
			Cantidades: map[string]int{"S": 4, "M": 4, "L": 3},
		}},
	})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)

	// Redistributing the same 12 units among the curve's sizes is accepted
	resp, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{
			ProductoID: a.ID.String(), CurvaID: strPtr(curva.ID.String()), CurvaCount: 3,
			Cantidades: map[string]int{"S": 4, "M": 4, "L": 4},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Items[0].Unidades)
}

func TestCrearPedido_ProductoFueraDelTier(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierPlata, nil)
	p := f.producto("PLAT-1", "calzados", "10.00", model.TierPlatino)

	_, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 1}},
	})
	assert.ErrorIs(t, err, ErrProductoNoVisible)
}

func TestCrearPedido_ProductoInexistente(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierPlata, nil)

	_, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: uuid.NewString(), CurvaCount: 1}},
	})
	v, ok := schema.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "not_found", v.Campos["items[0].producto_id"])
}

func TestCrearPedido_UsuarioSinCliente(t *testing.T) {
	f := newFixture()
	_, err := f.pedidoService().Crear(context.Background(), uuid.New(), dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: uuid.NewString(), CurvaCount: 1}},
	})
	assert.ErrorIs(t, err, ErrSinCliente)
}

func TestCrearPedido_AdminElijeCliente(t *testing.T) {
	f := newFixture()
	admin := f.admin()
	_, cliente := f.usuarioCliente("Acme", model.TierBronce, nil)
	p := f.producto("PLAT-1", "calzados", "10.00", model.TierPlatino)
	svc := f.pedidoService()

	_, err := svc.Crear(context.Background(), admin, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 1}},
	})
	v, ok := schema.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "required", v.Campos["cliente_id"])

	resp, err := svc.Crear(context.Background(), admin, dto.PedidoInsert{
		ClienteID: strPtr(cliente.ID.String()),
		Estado:    strPtr("confirmado"),
		Items:     []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmado", resp.Estado)
}

func TestCrearPedido_ClienteNoPuedeComprarParaOtro(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	_, otro := f.usuarioCliente("Beta", model.TierOro, nil)
	p := f.producto("A", "calzados", "10.00", model.TierBronce)

	_, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		ClienteID: strPtr(otro.ID.String()),
		Items:     []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 1}},
	})
	assert.ErrorIs(t, err, ErrAccesoDenegado)
}

func TestPedido_AislamientoEntreClientes(t *testing.T) {
	f := newFixture()
	acme, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	beta, _ := f.usuarioCliente("Beta", model.TierOro, nil)
	p := f.producto("A", "calzados", "10.00", model.TierBronce)
	svc := f.pedidoService()

	creado, err := svc.Crear(context.Background(), acme, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 1}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	_, err = svc.ObtenerPorID(context.Background(), beta, id)
	assert.ErrorIs(t, err, ErrNoEncontrado)

	lista, err := svc.Listar(context.Background(), beta, dto.PedidoFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, lista.Data)

	lista, err = svc.Listar(context.Background(), acme, dto.PedidoFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, lista.Data, 1)
}

func TestPedido_ResumenSinVendedor(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	p := f.producto("A", "calzados", "50.00", model.TierBronce)
	svc := f.pedidoService()

	creado, err := svc.Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 3}},
	})
	require.NoError(t, err)

	// Orders are stored without associations; preload what FindByID would
	stored := f.pedidos.rows[uuid.MustParse(creado.ID)]
	stored.Cliente = &model.Cliente{Nombre: "Acme"}

	v, err := svc.Resumen(context.Background(), user, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", v.Titulo)
	assert.Equal(t, "Sin vendedor asignado", v.Vendedor)
	assert.Equal(t, "$150.00", v.Total)
	assert.Equal(t, creado.ID[len(creado.ID)-8:], v.IDCorto)
	assert.Equal(t, "1 SKUs (3 unidades)", v.Calzados)
	assert.Equal(t, "0 SKUs (0 unidades)", v.Prendas)
}

func TestPedido_ActualizarYEliminar(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	p := f.producto("A", "calzados", "10.00", model.TierBronce)
	ana := &model.Vendedor{Nombre: "Ana"}
	require.NoError(t, f.vendedores.Create(context.Background(), ana))
	svc := f.pedidoService()

	creado, err := svc.Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 1}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	upd := dto.PedidoUpdate{Estado: strPtr("confirmado")}
	upd.VendedorID = dto.Opcional[string]{Set: true, Value: ana.ID.String()}
	resp, err := svc.Actualizar(context.Background(), id, upd)
	require.NoError(t, err)
	assert.Equal(t, "confirmado", resp.Estado)
	assert.Equal(t, "Ana", *resp.Vendedor)

	resp, err = svc.Actualizar(context.Background(), id, dto.PedidoUpdate{VendedorID: dto.Opcional[string]{Set: true, Null: true}})
	require.NoError(t, err)
	assert.Nil(t, resp.VendedorID)

	_, err = svc.Actualizar(context.Background(), id, dto.PedidoUpdate{VendedorID: dto.Opcional[string]{Set: true, Value: uuid.NewString()}})
	v, ok := schema.AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "not_found", v.Campos["vendedor_id"])

	require.NoError(t, svc.Eliminar(context.Background(), id))
	assert.ErrorIs(t, svc.Eliminar(context.Background(), id), ErrNoEncontrado)

	tipos := []string{}
	for _, ev := range f.eventos.eventos {
		tipos = append(tipos, ev.Tipo)
	}
	assert.Equal(t, []string{
		infra.EventoPedidoCreado,
		infra.EventoPedidoEstadoActualizado,
		infra.EventoPedidoEstadoActualizado,
		infra.EventoPedidoEliminado,
	}, tipos)
}

func TestPedido_PDF(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	p := f.producto("A", "calzados", "10.00", model.TierBronce)
	svc := f.pedidoService()

	creado, err := svc.Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: p.ID.String(), CurvaCount: 2}},
	})
	require.NoError(t, err)

	pdf, err := svc.PDF(context.Background(), user, uuid.MustParse(creado.ID))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestDesglose(t *testing.T) {
	curva := &model.Curva{Nombre: "Run", Talles: model.MapaTalles{"S": 1, "M": 2, "L": 1}}

	m, err := Desglose(curva, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, m.Total())

	_, err = Desglose(curva, 3, map[string]int{"XL": 12})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)

	m, err = Desglose(nil, 4, nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = Desglose(nil, 4, map[string]int{"U": 3})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
}

func TestSubtotal(t *testing.T) {
	curva := &model.Curva{Talles: model.MapaTalles{"S": 1, "M": 2, "L": 1}}
	precio := decimal.RequireFromString("12.50")

	assert.Equal(t, "150.00", Subtotal(precio, 3, curva).StringFixed(2))
	assert.Equal(t, "37.50", Subtotal(precio, 3, nil).StringFixed(2))
}

func TestDesglose_CantidadesFueraDeRango(t *testing.T) {
	curva := &model.Curva{Nombre: "Run", Talles: model.MapaTalles{"S": 1, "M": 2, "L": 1}}

	_, err := Desglose(curva, 1<<62, nil)
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
	_, err = Desglose(curva, model.MaxCurvasPorItem+1, nil)
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
	_, err = Desglose(curva, 0, nil)
	assert.ErrorIs(t, err, ErrCurvaInconsistente)

	m, err := Desglose(curva, model.MaxCurvasPorItem, nil)
	require.NoError(t, err)
	assert.Equal(t, 4*model.MaxCurvasPorItem, m.Total())

	// Quantities that would wrap around to the expected sum
	_, err = Desglose(nil, 1, map[string]int{"a": 1, "b": 1, "c": 1 << 62, "d": 1<<62 + 1})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
	_, err = Desglose(nil, 1, map[string]int{"a": 2, "b": -1})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
	_, err = Desglose(curva, 1, map[string]int{"S": 1 << 62, "M": -(1 << 62), "L": 4})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)

	// Weights stored before the bound existed
	pesada := &model.Curva{Nombre: "Pesada", Talles: model.MapaTalles{"U": 1 << 40}}
	_, err = Desglose(pesada, 1, nil)
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
}

func TestSubtotal_SinDesbordamiento(t *testing.T) {
	curva := &model.Curva{Talles: model.MapaTalles{"S": 1, "M": 2, "L": 1}}
	precio := decimal.RequireFromString("100.00")

	assert.Equal(t, "1844674407370955161600.00", Subtotal(precio, 1<<62, curva).StringFixed(2))
}

func TestCrearPedido_CurvaCountEnormeRechazado(t *testing.T) {
	f := newFixture()
	user, _ := f.usuarioCliente("Acme", model.TierOro, nil)
	gratis := f.producto("FREE", "calzados", "0.00", model.TierBronce)
	curva := f.curva(model.MapaTalles{"S": 1, "M": 2, "L": 1})

	_, err := f.pedidoService().Crear(context.Background(), user, dto.PedidoInsert{
		Items: []dto.ItemPedidoInsert{{ProductoID: gratis.ID.String(), CurvaID: strPtr(curva.ID.String()), CurvaCount: 1 << 62}},
	})
	assert.ErrorIs(t, err, ErrCurvaInconsistente)
	assert.Empty(t, f.pedidos.rows)
}
