package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.Migrar(db))
	return db
}

type mundo struct {
	vendedores VendedorRepository
	clientes   ClienteRepository
	productos  ProductoRepository
	curvas     CurvaRepository
	pedidos    PedidoRepository
	roles      UserRoleRepository
}

func nuevoMundo(t *testing.T) mundo {
	db := newTestDB(t)
	return mundo{
		vendedores: NewVendedorRepository(db),
		clientes:   NewClienteRepository(db),
		productos:  NewProductoRepository(db),
		curvas:     NewCurvaRepository(db),
		pedidos:    NewPedidoRepository(db),
		roles:      NewUserRoleRepository(db),
	}
}

// pedidoDe creates an order of one line for the given client and product.
func (m mundo) pedidoDe(t *testing.T, c *model.Cliente, p *model.Producto, curva *model.Curva, creado time.Time) *model.Pedido {
	t.Helper()
	item := model.ItemPedido{
		ProductoID:  p.ID,
		CurvaCount:  2,
		Cantidades:  model.MapaTalles{},
		SubtotalUSD: p.PrecioUSD.Mul(decimal.NewFromInt(2)),
	}
	if curva != nil {
		item.CurvaID = &curva.ID
		item.Cantidades = curva.Talles.Multiplicar(2)
		item.SubtotalUSD = p.PrecioUSD.Mul(decimal.NewFromInt(int64(2 * curva.Talles.Total())))
	}
	ped := &model.Pedido{
		ClienteID:  c.ID,
		VendedorID: c.VendedorID,
		TotalUSD:   item.SubtotalUSD,
		Estado:     model.EstadoPendiente,
		CreatedAt:  creado,
		Items:      []model.ItemPedido{item},
	}
	require.NoError(t, m.pedidos.Create(context.Background(), nil, ped))
	return ped
}

func TestUserRoles_Consultas(t *testing.T) {
	m := nuevoMundo(t)
	ctx := context.Background()

	c := &model.Cliente{Nombre: "Acme", Tier: model.TierOro}
	require.NoError(t, m.clientes.Create(ctx, c))
	user, admin, nadie := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, m.roles.Create(ctx, &model.UserRole{UserID: user, Role: model.RolVendedorCliente, ClienteID: &c.ID}))
	require.NoError(t, m.roles.Create(ctx, &model.UserRole{UserID: admin, Role: model.RolAdmin}))

	id, err := m.roles.ResolveClientID(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, c.ID, id)

	tier, err := m.roles.ResolveClientTier(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, model.TierOro, tier)

	_, err = m.roles.ResolveClientID(ctx, admin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = m.roles.ResolveClientTier(ctx, nadie)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := m.roles.IsAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.roles.IsAdmin(ctx, user)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPedidos_CrearYLeerCompleto(t *testing.T) {
	m := nuevoMundo(t)
	ctx := context.Background()

	ana := &model.Vendedor{Nombre: "Ana"}
	require.NoError(t, m.vendedores.Create(ctx, ana))
	c := &model.Cliente{Nombre: "Acme", Tier: model.TierOro, VendedorID: &ana.ID}
	require.NoError(t, m.clientes.Create(ctx, c))
	p := &model.Producto{SKU: "ZAP-1", Nombre: "Runner", Rubro: "calzados", PrecioUSD: decimal.RequireFromString("20.00"), Tier: model.TierBronce}
	require.NoError(t, m.productos.Create(ctx, p))
	curva := &model.Curva{Nombre: "Run", Talles: model.MapaTalles{"S": 1, "M": 2, "L": 1}}
	require.NoError(t, m.curvas.Create(ctx, curva))

	ped := m.pedidoDe(t, c, p, curva, time.Now())

	got, err := m.pedidos.FindByID(ctx, ped.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Cliente)
	assert.Equal(t, "Acme", got.Cliente.Nombre)
	require.NotNil(t, got.Vendedor)
	assert.Equal(t, "Ana", got.Vendedor.Nombre)
	require.Len(t, got.Items, 1)
	assert.Equal(t, model.MapaTalles{"S": 2, "M": 4, "L": 2}, got.Items[0].Cantidades)
	assert.Equal(t, 8, got.Items[0].Unidades())
	assert.Equal(t, "ZAP-1", got.Items[0].Producto.SKU)
	assert.Equal(t, "Run", got.Items[0].Curva.Nombre)
	assert.True(t, decimal.RequireFromString("160").Equal(got.TotalUSD))
}

func TestPedidos_Filtros(t *testing.T) {
	m := nuevoMundo(t)
	ctx := context.Background()

	a := &model.Cliente{Nombre: "Acme", Tier: model.TierOro}
	b := &model.Cliente{Nombre: "Beta", Tier: model.TierOro}
	require.NoError(t, m.clientes.Create(ctx, a))
	require.NoError(t, m.clientes.Create(ctx, b))
	p := &model.Producto{SKU: "A", Nombre: "A", Rubro: "prendas", PrecioUSD: decimal.NewFromInt(5), Tier: model.TierBronce}
	require.NoError(t, m.productos.Create(ctx, p))

	marzo := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	abril := time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC)
	m.pedidoDe(t, a, p, nil, marzo)
	m.pedidoDe(t, a, p, nil, abril)
	cancelado := m.pedidoDe(t, b, p, nil, abril)
	cancelado.Estado = model.EstadoCancelado
	require.NoError(t, m.pedidos.Update(ctx, cancelado))

	todos, err := m.pedidos.ListCompletos(ctx, FiltroPedidos{})
	require.NoError(t, err)
	assert.Len(t, todos, 3)

	activos, err := m.pedidos.ListCompletos(ctx, FiltroPedidos{SinCancelados: true})
	require.NoError(t, err)
	assert.Len(t, activos, 2)

	deAcme, total, err := m.pedidos.List(ctx, FiltroPedidos{ClienteID: &a.ID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.True(t, deAcme[0].CreatedAt.After(deAcme[1].CreatedAt))

	// Hasta is inclusive of the whole day
	abriles, err := m.pedidos.ListCompletos(ctx, FiltroPedidos{Desde: "2026-04-01", Hasta: "2026-04-30"})
	require.NoError(t, err)
	assert.Len(t, abriles, 2)

	_, err = m.pedidos.ListCompletos(ctx, FiltroPedidos{Desde: "01/04/2026"})
	assert.Error(t, err)
}

func TestEliminar_PoliticaDeReferencias(t *testing.T) {
	m := nuevoMundo(t)
	ctx := context.Background()

	ana := &model.Vendedor{Nombre: "Ana"}
	require.NoError(t, m.vendedores.Create(ctx, ana))
	c := &model.Cliente{Nombre: "Acme", Tier: model.TierOro, VendedorID: &ana.ID}
	require.NoError(t, m.clientes.Create(ctx, c))
	require.NoError(t, m.roles.Create(ctx, &model.UserRole{UserID: uuid.New(), Role: model.RolCliente, ClienteID: &c.ID}))
	p := &model.Producto{SKU: "A", Nombre: "A", Rubro: "calzados", PrecioUSD: decimal.NewFromInt(5), Tier: model.TierBronce}
	require.NoError(t, m.productos.Create(ctx, p))
	curva := &model.Curva{Nombre: "Run", Talles: model.MapaTalles{"40": 1}}
	require.NoError(t, m.curvas.Create(ctx, curva))
	ped := m.pedidoDe(t, c, p, curva, time.Now())

	// Referenced rows are protected
	assert.ErrorIs(t, m.clientes.Delete(ctx, c.ID), ErrReferenciaEnUso)
	assert.ErrorIs(t, m.productos.Delete(ctx, p.ID), ErrReferenciaEnUso)
	assert.ErrorIs(t, m.curvas.Delete(ctx, curva.ID), ErrReferenciaEnUso)

	// Vendor delete unassigns clients and orders
	require.NoError(t, m.vendedores.Delete(ctx, ana.ID))
	got, err := m.clientes.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.VendedorID)
	gotPed, err := m.pedidos.FindByID(ctx, ped.ID)
	require.NoError(t, err)
	assert.Nil(t, gotPed.VendedorID)

	// Order delete takes its lines, which frees everything else
	require.NoError(t, m.pedidos.Delete(ctx, ped.ID))
	assert.ErrorIs(t, m.pedidos.Delete(ctx, ped.ID), gorm.ErrRecordNotFound)
	require.NoError(t, m.productos.Delete(ctx, p.ID))
	require.NoError(t, m.curvas.Delete(ctx, curva.ID))
	require.NoError(t, m.clientes.Delete(ctx, c.ID))

	roles, err := m.roles.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestProductos_ListarPorTier(t *testing.T) {
	m := nuevoMundo(t)
	ctx := context.Background()
	for i, tier := range []model.Tier{model.TierBronce, model.TierPlata, model.TierOro, model.TierPlatino} {
		require.NoError(t, m.productos.Create(ctx, &model.Producto{
			SKU: fmt.Sprintf("SKU-%d", i), Nombre: string(tier), Rubro: "calzados",
			PrecioUSD: decimal.NewFromInt(10), Tier: tier,
		}))
	}

	list, total, err := m.productos.List(ctx, dto.ProductoFilter{Tiers: []string{"bronce", "plata"}, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	got, err := m.productos.FindBySKU(ctx, "SKU-3")
	require.NoError(t, err)
	assert.Equal(t, model.TierPlatino, got.Tier)

	_, err = m.productos.FindBySKU(ctx, "NOPE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
