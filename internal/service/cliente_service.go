package service

import (
	"context"
	"errors"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteService defines business operations for wholesale clients.
type ClienteService interface {
	Crear(ctx context.Context, req dto.ClienteInsert) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, vendedorID *uuid.UUID) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteUpdate) (*dto.ClienteResponse, error)
	// Eliminar is rejected with ErrReferenciaEnUso while the client has orders.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo         repository.ClienteRepository
	vendedorRepo repository.VendedorRepository
	cache        *infra.Cache
}

func NewClienteService(repo repository.ClienteRepository, vendedorRepo repository.VendedorRepository, cache *infra.Cache) ClienteService {
	return &clienteService{repo: repo, vendedorRepo: vendedorRepo, cache: cache}
}

// vendedorExistente checks the optional vendor reference.
func (s *clienteService) vendedorExistente(ctx context.Context, id *uuid.UUID) (*model.Vendedor, error) {
	if id == nil {
		return nil, nil
	}
	v, err := s.vendedorRepo.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schema.Campo("vendedor_id", "not_found")
		}
		return nil, err
	}
	return v, nil
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteInsert) (*dto.ClienteResponse, error) {
	id, err := parseOptionalID(req.ID)
	if err != nil {
		return nil, err
	}
	vendedorID, err := uuidPtr(req.VendedorID)
	if err != nil {
		return nil, err
	}
	vendedor, err := s.vendedorExistente(ctx, vendedorID)
	if err != nil {
		return nil, err
	}

	c := &model.Cliente{
		ID:         id,
		Nombre:     req.Nombre,
		Tier:       model.Tier(req.Tier),
		VendedorID: vendedorID,
		Email:      req.Email,
	}
	if req.CreatedAt != nil {
		c.CreatedAt = *req.CreatedAt
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicado(err, ErrIDDuplicado)
	}
	c.Vendedor = vendedor
	resp := mapCliente(*c)
	return &resp, nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	resp := mapCliente(*c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, vendedorID *uuid.UUID) ([]dto.ClienteResponse, error) {
	list, err := s.repo.List(ctx, vendedorID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCliente(c))
	}
	return out, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteUpdate) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Tier != nil {
		c.Tier = model.Tier(*req.Tier)
	}
	if req.Email.Set {
		c.Email = req.Email.Ptr()
	}
	if req.VendedorID.Set {
		vendedorID, err := uuidPtr(req.VendedorID.Ptr())
		if err != nil {
			return nil, err
		}
		vendedor, err := s.vendedorExistente(ctx, vendedorID)
		if err != nil {
			return nil, err
		}
		c.VendedorID = vendedorID
		c.Vendedor = vendedor
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		s.cache.Invalidar(ctx, prefijoReportes)
	}
	resp := mapCliente(*c)
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "cliente")
	}
	return nil
}
