package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/view"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoService covers cart checkout and the order lifecycle. Client-scoped
// callers only ever see and create orders of their own client.
type PedidoService interface {
	Crear(ctx context.Context, userID uuid.UUID, req dto.PedidoInsert) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, userID, id uuid.UUID) (*dto.PedidoResponse, error)
	Resumen(ctx context.Context, userID, id uuid.UUID) (*dto.ResumenPedidoView, error)
	PDF(ctx context.Context, userID, id uuid.UUID) ([]byte, error)
	Listar(ctx context.Context, userID uuid.UUID, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.PedidoUpdate) (*dto.PedidoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

// PedidoDeps groups the collaborators of the order service.
type PedidoDeps struct {
	Repo         repository.PedidoRepository
	ClienteRepo  repository.ClienteRepository
	VendedorRepo repository.VendedorRepository
	ProductoRepo repository.ProductoRepository
	CurvaRepo    repository.CurvaRepository
	Acceso       AccesoService
	Eventos      infra.EventPublisher
	Cache        *infra.Cache
	Empresa      string
}

type pedidoService struct {
	PedidoDeps
}

func NewPedidoService(deps PedidoDeps) PedidoService {
	return &pedidoService{PedidoDeps: deps}
}

// eventoPedido is the payload of every order event.
type eventoPedido struct {
	PedidoID   string          `json:"pedido_id"`
	ClienteID  string          `json:"cliente_id"`
	VendedorID *string         `json:"vendedor_id"`
	TotalUSD   decimal.Decimal `json:"total_usd"`
	Estado     string          `json:"estado"`
	Items      int             `json:"items"`
}

func (s *pedidoService) publicar(ctx context.Context, tipo string, p *model.Pedido) {
	s.Cache.Invalidar(ctx, prefijoReportes)
	if s.Eventos == nil {
		return
	}
	ev := infra.Evento{
		Tipo: tipo,
		Key:  p.ID.String(),
		Payload: eventoPedido{
			PedidoID:   p.ID.String(),
			ClienteID:  p.ClienteID.String(),
			VendedorID: idString(p.VendedorID),
			TotalUSD:   p.TotalUSD,
			Estado:     string(p.Estado),
			Items:      len(p.Items),
		},
	}
	if err := s.Eventos.Publicar(ctx, ev); err != nil {
		log.Warn().Err(err).Str("pedido_id", p.ID.String()).Str("tipo", tipo).Msg("pedido: event publish failed")
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Checkout:
//   1. Resolve the client (caller's own, or cliente_id for admins)
//   2. Vendor: explicit vendedor_id, else the client's vendor
//   3. For each line: product visible to the client tier, curve breakdown,
//      subtotal = curva_count × precio × unidades por curva
//   4. total = Σ subtotal; a client-sent total must match
//   5. Insert order + lines in one transaction, then publish pedido_creado

func (s *pedidoService) Crear(ctx context.Context, userID uuid.UUID, req dto.PedidoInsert) (*dto.PedidoResponse, error) {
	alc, err := resolverAlcance(ctx, s.Acceso, userID)
	if err != nil {
		return nil, err
	}

	// 1. Client
	clienteID := alc.clienteID
	if alc.admin {
		if req.ClienteID == nil {
			return nil, schema.Campo("cliente_id", "required")
		}
		if clienteID, err = uuid.Parse(*req.ClienteID); err != nil {
			return nil, schema.Campo("cliente_id", "uuid")
		}
	} else if req.ClienteID != nil && *req.ClienteID != clienteID.String() {
		return nil, ErrAccesoDenegado
	}
	cliente, err := s.ClienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schema.Campo("cliente_id", "not_found")
		}
		return nil, err
	}

	estado := model.EstadoPendiente
	if req.Estado != nil {
		estado = model.EstadoPedido(*req.Estado)
		if !alc.admin && estado != model.EstadoPendiente {
			return nil, ErrAccesoDenegado
		}
	}

	// 2. Vendor
	vendedorID := cliente.VendedorID
	vendedor := cliente.Vendedor
	if req.VendedorID != nil {
		id, err := uuid.Parse(*req.VendedorID)
		if err != nil {
			return nil, schema.Campo("vendedor_id", "uuid")
		}
		if vendedor, err = s.VendedorRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, schema.Campo("vendedor_id", "not_found")
			}
			return nil, err
		}
		vendedorID = &id
	}

	// 3. Lines
	items, err := s.resolverItems(ctx, req.Items, cliente.Tier, alc.admin)
	if err != nil {
		return nil, err
	}

	// 4. Total
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.SubtotalUSD)
	}
	if req.TotalUSD != nil && !req.TotalUSD.Round(2).Equal(total.Round(2)) {
		return nil, fmt.Errorf("%w: enviado %s, calculado %s",
			ErrTotalInconsistente, req.TotalUSD.StringFixed(2), total.StringFixed(2))
	}

	id, err := parseOptionalID(req.ID)
	if err != nil {
		return nil, schema.Campo("id", "uuid")
	}
	pedido := &model.Pedido{
		ID:         id,
		ClienteID:  cliente.ID,
		VendedorID: vendedorID,
		TotalUSD:   total,
		Estado:     estado,
		Items:      items,
	}
	if req.CreatedAt != nil {
		pedido.CreatedAt = *req.CreatedAt
	}

	// 5. Persist
	txErr := runTx(ctx, s.Repo.DB(), func(tx *gorm.DB) error {
		return s.Repo.Create(ctx, tx, pedido)
	})
	if txErr != nil {
		return nil, duplicado(txErr, ErrIDDuplicado)
	}

	pedido.Cliente = cliente
	pedido.Vendedor = vendedor
	s.publicar(ctx, infra.EventoPedidoCreado, pedido)

	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("cliente_id", cliente.ID.String()).
		Str("total_usd", total.StringFixed(2)).
		Int("items", len(items)).
		Msg("pedido creado")

	resp := mapPedido(*pedido)
	return &resp, nil
}

// resolverItems prices every line and fills its size breakdown. Products and
// curves are fetched in one query each.
func (s *pedidoService) resolverItems(ctx context.Context, reqs []dto.ItemPedidoInsert, tier model.Tier, admin bool) ([]model.ItemPedido, error) {
	var productoIDs, curvaIDs []uuid.UUID
	for i, r := range reqs {
		pid, err := uuid.Parse(r.ProductoID)
		if err != nil {
			return nil, schema.Campo(fmt.Sprintf("items[%d].producto_id", i), "uuid")
		}
		productoIDs = append(productoIDs, pid)
		if r.CurvaID != nil {
			cid, err := uuid.Parse(*r.CurvaID)
			if err != nil {
				return nil, schema.Campo(fmt.Sprintf("items[%d].curva_id", i), "uuid")
			}
			curvaIDs = append(curvaIDs, cid)
		}
	}

	productos, err := s.ProductoRepo.FindByIDs(ctx, productoIDs)
	if err != nil {
		return nil, err
	}
	porProducto := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		porProducto[productos[i].ID] = &productos[i]
	}
	curvas, err := s.CurvaRepo.FindByIDs(ctx, curvaIDs)
	if err != nil {
		return nil, err
	}
	porCurva := make(map[uuid.UUID]*model.Curva, len(curvas))
	for i := range curvas {
		porCurva[curvas[i].ID] = &curvas[i]
	}

	items := make([]model.ItemPedido, 0, len(reqs))
	for i, r := range reqs {
		producto, ok := porProducto[productoIDs[i]]
		if !ok {
			return nil, schema.Campo(fmt.Sprintf("items[%d].producto_id", i), "not_found")
		}
		if !admin && producto.Tier.Rank() > tier.Rank() {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoVisible, producto.SKU)
		}

		var curva *model.Curva
		if r.CurvaID != nil {
			cid, _ := uuid.Parse(*r.CurvaID)
			if curva, ok = porCurva[cid]; !ok {
				return nil, schema.Campo(fmt.Sprintf("items[%d].curva_id", i), "not_found")
			}
		}

		cantidades, err := Desglose(curva, r.CurvaCount, r.Cantidades)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		item := model.ItemPedido{
			ProductoID:  producto.ID,
			CurvaCount:  r.CurvaCount,
			Cantidades:  cantidades,
			SubtotalUSD: Subtotal(producto.PrecioUSD, r.CurvaCount, curva),
			Producto:    producto,
			Curva:       curva,
		}
		if curva != nil {
			item.CurvaID = &curva.ID
		}
		items = append(items, item)
	}
	return items, nil
}

// Subtotal is curva_count × precio × unidades por curva (1 without a curve).
func Subtotal(precio decimal.Decimal, curvaCount int, curva *model.Curva) decimal.Decimal {
	unidades := decimal.NewFromInt(int64(curvaCount)).Mul(decimal.NewFromInt(int64(curva.UnidadesPorCurva())))
	return precio.Mul(unidades).Round(2)
}

// Desglose returns the size breakdown of a line. With a curve and no explicit
// breakdown every size gets weight × curvaCount units; an explicit breakdown
// may redistribute units among the curve's sizes but must add up to
// curvaCount × the curve's total. Without a curve the breakdown, if any, must
// add up to curvaCount.
func Desglose(curva *model.Curva, curvaCount int, cantidades map[string]int) (model.MapaTalles, error) {
	if curvaCount < 1 || curvaCount > model.MaxCurvasPorItem {
		return nil, fmt.Errorf("%w: curva_count %d fuera de rango", ErrCurvaInconsistente, curvaCount)
	}
	m := model.MapaTalles(cantidades)

	if curva == nil {
		if len(m) == 0 {
			return model.MapaTalles{}, nil
		}
		if talle, mal := m.FueraDeRango(curvaCount); mal {
			return nil, fmt.Errorf("%w: talle %q fuera de rango", ErrCurvaInconsistente, talle)
		}
		if m.Total() != curvaCount {
			return nil, fmt.Errorf("%w: suma %d, esperado %d", ErrCurvaInconsistente, m.Total(), curvaCount)
		}
		return m, nil
	}

	if talle, mal := curva.Talles.FueraDeRango(model.MaxPesoTalle); mal {
		return nil, fmt.Errorf("%w: peso del talle %q fuera de rango en la curva %s", ErrCurvaInconsistente, talle, curva.Nombre)
	}
	if len(m) == 0 {
		return curva.Talles.Multiplicar(curvaCount), nil
	}
	esperado := curvaCount * curva.Talles.Total()
	for talle := range m {
		if _, ok := curva.Talles[talle]; !ok {
			return nil, fmt.Errorf("%w: talle %q fuera de la curva %s", ErrCurvaInconsistente, talle, curva.Nombre)
		}
	}
	if talle, mal := m.FueraDeRango(esperado); mal {
		return nil, fmt.Errorf("%w: talle %q fuera de rango", ErrCurvaInconsistente, talle)
	}
	if m.Total() != esperado {
		return nil, fmt.Errorf("%w: suma %d, esperado %d", ErrCurvaInconsistente, m.Total(), esperado)
	}
	return m, nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// cargar returns the order when the caller may see it. Orders of other
// clients are reported as not found.
func (s *pedidoService) cargar(ctx context.Context, userID, id uuid.UUID) (*model.Pedido, error) {
	alc, err := resolverAlcance(ctx, s.Acceso, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "pedido")
	}
	if !alc.admin && p.ClienteID != alc.clienteID {
		return nil, fmt.Errorf("pedido: %w", ErrNoEncontrado)
	}
	return p, nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, userID, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.cargar(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := mapPedido(*p)
	return &resp, nil
}

func (s *pedidoService) Resumen(ctx context.Context, userID, id uuid.UUID) (*dto.ResumenPedidoView, error) {
	p, err := s.cargar(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	v := view.ResumenPedido(resumenDe(*p))
	return &v, nil
}

func (s *pedidoService) PDF(ctx context.Context, userID, id uuid.UUID) ([]byte, error) {
	p, err := s.cargar(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return infra.GenerarNotaPedidoPDF(p, s.Empresa)
}

func (s *pedidoService) Listar(ctx context.Context, userID uuid.UUID, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	alc, err := resolverAlcance(ctx, s.Acceso, userID)
	if err != nil {
		return nil, err
	}
	filtro, err := repository.FiltroDesdeLista(filter)
	if err != nil {
		return nil, err
	}
	if !alc.admin {
		filtro.ClienteID = &alc.clienteID
	}
	list, total, err := s.Repo.List(ctx, filtro, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(list))
	for _, p := range list {
		data = append(data, mapPedido(p))
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Administración ────────────────────────────────────────────────────────────

func (s *pedidoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.PedidoUpdate) (*dto.PedidoResponse, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "pedido")
	}
	if req.Estado != nil {
		p.Estado = model.EstadoPedido(*req.Estado)
	}
	if req.VendedorID.Set {
		vendedorID, err := uuidPtr(req.VendedorID.Ptr())
		if err != nil {
			return nil, schema.Campo("vendedor_id", "uuid")
		}
		p.Vendedor = nil
		if vendedorID != nil {
			if p.Vendedor, err = s.VendedorRepo.FindByID(ctx, *vendedorID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, schema.Campo("vendedor_id", "not_found")
				}
				return nil, err
			}
		}
		p.VendedorID = vendedorID
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.publicar(ctx, infra.EventoPedidoEstadoActualizado, p)
	resp := mapPedido(*p)
	return &resp, nil
}

func (s *pedidoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "pedido")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, "pedido")
	}
	s.publicar(ctx, infra.EventoPedidoEliminado, p)
	return nil
}
