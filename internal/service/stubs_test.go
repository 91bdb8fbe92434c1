package service

import (
	"context"
	"sort"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ─── In-memory repositories ──────────────────────────────────────────────────

type stubVendedorRepo struct{ rows map[uuid.UUID]*model.Vendedor }

func newStubVendedorRepo() *stubVendedorRepo {
	return &stubVendedorRepo{rows: map[uuid.UUID]*model.Vendedor{}}
}

func (r *stubVendedorRepo) Create(_ context.Context, v *model.Vendedor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if _, ok := r.rows[v.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *v
	r.rows[v.ID] = &cp
	return nil
}

func (r *stubVendedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendedor, error) {
	v, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVendedorRepo) List(context.Context) ([]model.Vendedor, error) {
	var out []model.Vendedor
	for _, v := range r.rows {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVendedorRepo) Update(_ context.Context, v *model.Vendedor) error {
	cp := *v
	r.rows[v.ID] = &cp
	return nil
}

func (r *stubVendedorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type stubClienteRepo struct {
	rows       map[uuid.UUID]*model.Cliente
	vendedores *stubVendedorRepo
	conPedidos map[uuid.UUID]bool
}

func newStubClienteRepo(v *stubVendedorRepo) *stubClienteRepo {
	return &stubClienteRepo{rows: map[uuid.UUID]*model.Cliente{}, vendedores: v, conPedidos: map[uuid.UUID]bool{}}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := r.rows[c.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *c
	cp.Vendedor = nil
	r.rows[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	if cp.VendedorID != nil {
		cp.Vendedor = r.vendedores.rows[*cp.VendedorID]
	}
	return &cp, nil
}

func (r *stubClienteRepo) List(_ context.Context, vendedorID *uuid.UUID) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.rows {
		if vendedorID != nil && (c.VendedorID == nil || *c.VendedorID != *vendedorID) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	cp.Vendedor = nil
	r.rows[c.ID] = &cp
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.conPedidos[id] {
		return repository.ErrReferenciaEnUso
	}
	delete(r.rows, id)
	return nil
}

type stubProductoRepo struct{ rows map[uuid.UUID]*model.Producto }

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{rows: map[uuid.UUID]*model.Producto{}}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := r.rows[p.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	for _, otro := range r.rows {
		if otro.SKU == p.SKU {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindBySKU(_ context.Context, sku string) (*model.Producto, error) {
	for _, p := range r.rows {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, f dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.rows {
		if f.Rubro != "" && p.Rubro != f.Rubro {
			continue
		}
		if len(f.Tiers) > 0 && !contiene(f.Tiers, string(p.Tier)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type stubCurvaRepo struct{ rows map[uuid.UUID]*model.Curva }

func newStubCurvaRepo() *stubCurvaRepo { return &stubCurvaRepo{rows: map[uuid.UUID]*model.Curva{}} }

func (r *stubCurvaRepo) Create(_ context.Context, c *model.Curva) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := r.rows[c.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *stubCurvaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Curva, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCurvaRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Curva, error) {
	var out []model.Curva
	for _, id := range ids {
		if c, ok := r.rows[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCurvaRepo) List(context.Context, string) ([]model.Curva, error) {
	var out []model.Curva
	for _, c := range r.rows {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCurvaRepo) Update(_ context.Context, c *model.Curva) error {
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *stubCurvaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type stubPedidoRepo struct {
	rows     map[uuid.UUID]*model.Pedido
	clientes *stubClienteRepo
}

func newStubPedidoRepo(c *stubClienteRepo) *stubPedidoRepo {
	return &stubPedidoRepo{rows: map[uuid.UUID]*model.Pedido{}, clientes: c}
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, ok := r.rows[p.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	for i := range p.Items {
		p.Items[i].PedidoID = p.ID
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
	}
	cp := *p
	r.rows[p.ID] = &cp
	r.clientes.conPedidos[p.ClienteID] = true
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPedidoRepo) filtrar(f repository.FiltroPedidos) []model.Pedido {
	var out []model.Pedido
	for _, p := range r.rows {
		if f.ClienteID != nil && p.ClienteID != *f.ClienteID {
			continue
		}
		if f.Estado != "" && string(p.Estado) != f.Estado {
			continue
		}
		if f.Estado == "" && f.SinCancelados && p.Estado == model.EstadoCancelado {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func (r *stubPedidoRepo) List(_ context.Context, f repository.FiltroPedidos, _, _ int) ([]model.Pedido, int64, error) {
	out := r.filtrar(f)
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) ListCompletos(_ context.Context, f repository.FiltroPedidos) ([]model.Pedido, error) {
	return r.filtrar(f), nil
}

func (r *stubPedidoRepo) Update(_ context.Context, p *model.Pedido) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *stubPedidoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

type stubUserRoleRepo struct {
	rows     map[uuid.UUID]*model.UserRole
	clientes *stubClienteRepo
}

func newStubUserRoleRepo(c *stubClienteRepo) *stubUserRoleRepo {
	return &stubUserRoleRepo{rows: map[uuid.UUID]*model.UserRole{}, clientes: c}
}

func (r *stubUserRoleRepo) Create(_ context.Context, ur *model.UserRole) error {
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	if _, ok := r.rows[ur.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *ur
	r.rows[ur.ID] = &cp
	return nil
}

func (r *stubUserRoleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.UserRole, error) {
	ur, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ur
	return &cp, nil
}

func (r *stubUserRoleRepo) List(_ context.Context, userID *uuid.UUID) ([]model.UserRole, error) {
	var out []model.UserRole
	for _, ur := range r.rows {
		if userID == nil || ur.UserID == *userID {
			out = append(out, *ur)
		}
	}
	return out, nil
}

func (r *stubUserRoleRepo) Update(_ context.Context, ur *model.UserRole) error {
	cp := *ur
	r.rows[ur.ID] = &cp
	return nil
}

func (r *stubUserRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *stubUserRoleRepo) ResolveClientID(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	for _, ur := range r.rows {
		if ur.UserID == userID && ur.Role.RequiereCliente() && ur.ClienteID != nil {
			return *ur.ClienteID, nil
		}
	}
	return uuid.Nil, gorm.ErrRecordNotFound
}

func (r *stubUserRoleRepo) ResolveClientTier(ctx context.Context, userID uuid.UUID) (model.Tier, error) {
	id, err := r.ResolveClientID(ctx, userID)
	if err != nil {
		return "", err
	}
	c, err := r.clientes.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Tier, nil
}

func (r *stubUserRoleRepo) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	for _, ur := range r.rows {
		if ur.UserID == userID && ur.Role == model.RolAdmin {
			return true, nil
		}
	}
	return false, nil
}

// ─── Collaborators ───────────────────────────────────────────────────────────

type stubPublisher struct{ eventos []infra.Evento }

func (p *stubPublisher) Publicar(_ context.Context, ev infra.Evento) error {
	p.eventos = append(p.eventos, ev)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type stubEncolador struct{ jobs []worker.ExportEmailPayload }

func (e *stubEncolador) EnqueueExportEmail(_ context.Context, p worker.ExportEmailPayload) error {
	e.jobs = append(e.jobs, p)
	return nil
}

// ─── Fixture ─────────────────────────────────────────────────────────────────

type fixture struct {
	vendedores *stubVendedorRepo
	clientes   *stubClienteRepo
	productos  *stubProductoRepo
	curvas     *stubCurvaRepo
	pedidos    *stubPedidoRepo
	roles      *stubUserRoleRepo
	eventos    *stubPublisher
	acceso     AccesoService
}

func newFixture() *fixture {
	v := newStubVendedorRepo()
	c := newStubClienteRepo(v)
	f := &fixture{
		vendedores: v,
		clientes:   c,
		productos:  newStubProductoRepo(),
		curvas:     newStubCurvaRepo(),
		pedidos:    newStubPedidoRepo(c),
		roles:      newStubUserRoleRepo(c),
		eventos:    &stubPublisher{},
	}
	f.acceso = NewAccesoService(f.roles)
	return f
}

func (f *fixture) pedidoService() PedidoService {
	return NewPedidoService(PedidoDeps{
		Repo:         f.pedidos,
		ClienteRepo:  f.clientes,
		VendedorRepo: f.vendedores,
		ProductoRepo: f.productos,
		CurvaRepo:    f.curvas,
		Acceso:       f.acceso,
		Eventos:      f.eventos,
		Empresa:      "NB Preorder",
	})
}

func (f *fixture) admin() uuid.UUID {
	u := uuid.New()
	_ = f.roles.Create(context.Background(), &model.UserRole{UserID: u, Role: model.RolAdmin})
	return u
}

// usuarioCliente creates a client of the given tier and a user bound to it.
func (f *fixture) usuarioCliente(nombre string, tier model.Tier, vendedor *model.Vendedor) (uuid.UUID, *model.Cliente) {
	c := &model.Cliente{Nombre: nombre, Tier: tier}
	if vendedor != nil {
		c.VendedorID = &vendedor.ID
	}
	_ = f.clientes.Create(context.Background(), c)
	u := uuid.New()
	_ = f.roles.Create(context.Background(), &model.UserRole{UserID: u, Role: model.RolCliente, ClienteID: &c.ID})
	return u, c
}
