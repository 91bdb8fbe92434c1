package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	prefijoCatalogo = "catalogo:"
	prefijoReportes = "reportes:"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.ProductoInsert) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	// Listar is the admin listing: every tier.
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	// Catalogo lists what userID may order: products whose tier is at or
	// below the caller's client tier. Admins see every tier.
	Catalogo(ctx context.Context, userID uuid.UUID, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ObtenerPorSKU(ctx context.Context, userID uuid.UUID, sku string) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoUpdate) (*dto.ProductoResponse, error)
	// Eliminar is rejected with ErrReferenciaEnUso while an order line uses it.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo   repository.ProductoRepository
	acceso AccesoService
	cache  *infra.Cache
	ttl    time.Duration
}

func NewProductoService(repo repository.ProductoRepository, acceso AccesoService, cache *infra.Cache, ttl time.Duration) ProductoService {
	return &productoService{repo: repo, acceso: acceso, cache: cache, ttl: ttl}
}

// skuLibre fails with ErrSkuDuplicado when another product owns sku.
func (s *productoService) skuLibre(ctx context.Context, sku string, propio uuid.UUID) error {
	existing, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != propio {
		return ErrSkuDuplicado
	}
	return nil
}

// conflictoAlta tells a taken id apart from a SKU won by a concurrent insert.
func (s *productoService) conflictoAlta(ctx context.Context, err error, id uuid.UUID) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if id != uuid.Nil {
		if _, ferr := s.repo.FindByID(ctx, id); ferr == nil {
			return ErrIDDuplicado
		}
	}
	return ErrSkuDuplicado
}

func (s *productoService) Crear(ctx context.Context, req dto.ProductoInsert) (*dto.ProductoResponse, error) {
	if req.PrecioUSD == nil {
		return nil, schema.Campo("precio_usd", "required")
	}
	if err := s.skuLibre(ctx, req.SKU, uuid.Nil); err != nil {
		return nil, err
	}
	id, err := parseOptionalID(req.ID)
	if err != nil {
		return nil, err
	}
	p := &model.Producto{
		ID:            id,
		SKU:           req.SKU,
		Nombre:        req.Nombre,
		Rubro:         req.Rubro,
		Linea:         req.Linea,
		Genero:        req.Genero,
		PrecioUSD:     *req.PrecioUSD,
		Tier:          model.Tier(req.Tier),
		FechaDespacho: req.FechaDespacho,
		ImagenURL:     req.ImagenURL,
		GamePlan:      req.GamePlan,
	}
	if req.CreatedAt != nil {
		p.CreatedAt = *req.CreatedAt
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.conflictoAlta(ctx, err, id)
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(list))
	for _, p := range list {
		data = append(data, mapProducto(p))
	}
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// tiersVisibles returns nil for admins (no restriction).
func (s *productoService) tiersVisibles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	admin, err := s.acceso.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if admin {
		return nil, nil
	}
	tier, err := s.acceso.ResolveClientTier(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, t := range model.TiersHasta(tier) {
		out = append(out, string(t))
	}
	return out, nil
}

func (s *productoService) Catalogo(ctx context.Context, userID uuid.UUID, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	tiers, err := s.tiersVisibles(ctx, userID)
	if err != nil {
		return nil, err
	}
	filter.Tiers = tiers
	return s.Listar(ctx, filter)
}

func (s *productoService) ObtenerPorSKU(ctx context.Context, userID uuid.UUID, sku string) (*dto.ProductoResponse, error) {
	p, err := infra.Recordar(ctx, s.cache, prefijoCatalogo+"sku:"+sku, s.ttl,
		func(ctx context.Context) (dto.ProductoResponse, error) {
			p, err := s.repo.FindBySKU(ctx, sku)
			if err != nil {
				return dto.ProductoResponse{}, notFound(err, "producto")
			}
			return mapProducto(*p), nil
		})
	if err != nil {
		return nil, err
	}

	tiers, err := s.tiersVisibles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tiers != nil && !contiene(tiers, p.Tier) {
		return nil, ErrProductoNoVisible
	}
	return &p, nil
}

func contiene(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoUpdate) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	skuAnterior := p.SKU
	if req.SKU != nil && *req.SKU != p.SKU {
		if err := s.skuLibre(ctx, *req.SKU, p.ID); err != nil {
			return nil, err
		}
		p.SKU = *req.SKU
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Rubro != nil {
		p.Rubro = *req.Rubro
	}
	if req.Linea != nil {
		p.Linea = *req.Linea
	}
	if req.Genero != nil {
		p.Genero = *req.Genero
	}
	if req.PrecioUSD != nil {
		p.PrecioUSD = *req.PrecioUSD
	}
	if req.Tier != nil {
		p.Tier = model.Tier(*req.Tier)
	}
	if req.FechaDespacho.Set {
		p.FechaDespacho = req.FechaDespacho.Ptr()
	}
	if req.ImagenURL.Set {
		p.ImagenURL = req.ImagenURL.Ptr()
	}
	if req.GamePlan.Set {
		p.GamePlan = req.GamePlan.Ptr()
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, duplicado(err, ErrSkuDuplicado)
	}

	s.cache.Invalidar(ctx, prefijoCatalogo+"sku:"+skuAnterior)
	if req.Rubro != nil {
		// Category totals of past orders follow the product's current rubro
		s.cache.Invalidar(ctx, prefijoReportes)
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "producto")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "producto")
	}
	s.cache.Invalidar(ctx, prefijoCatalogo+"sku:"+p.SKU)
	return nil
}
