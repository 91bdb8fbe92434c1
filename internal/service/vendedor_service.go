package service

import (
	"context"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"

	"github.com/google/uuid"
)

// VendedorService defines business operations for sales representatives.
type VendedorService interface {
	Crear(ctx context.Context, req dto.VendedorInsert) (*dto.VendedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VendedorResponse, error)
	Listar(ctx context.Context) ([]dto.VendedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.VendedorUpdate) (*dto.VendedorResponse, error)
	// Eliminar nullifies the vendor on its clients and orders.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type vendedorService struct {
	repo  repository.VendedorRepository
	cache *infra.Cache
}

func NewVendedorService(repo repository.VendedorRepository, cache *infra.Cache) VendedorService {
	return &vendedorService{repo: repo, cache: cache}
}

func (s *vendedorService) Crear(ctx context.Context, req dto.VendedorInsert) (*dto.VendedorResponse, error) {
	id, err := parseOptionalID(req.ID)
	if err != nil {
		return nil, err
	}
	v := &model.Vendedor{ID: id, Nombre: req.Nombre, Email: req.Email, Telefono: req.Telefono}
	if req.CreatedAt != nil {
		v.CreatedAt = *req.CreatedAt
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, duplicado(err, ErrIDDuplicado)
	}
	resp := mapVendedor(*v)
	return &resp, nil
}

func (s *vendedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VendedorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vendedor")
	}
	resp := mapVendedor(*v)
	return &resp, nil
}

func (s *vendedorService) Listar(ctx context.Context) ([]dto.VendedorResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendedorResponse, 0, len(list))
	for _, v := range list {
		out = append(out, mapVendedor(v))
	}
	return out, nil
}

func (s *vendedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.VendedorUpdate) (*dto.VendedorResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vendedor")
	}
	if req.Nombre != nil {
		v.Nombre = *req.Nombre
	}
	if req.Email.Set {
		v.Email = req.Email.Ptr()
	}
	if req.Telefono.Set {
		v.Telefono = req.Telefono.Ptr()
	}
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	if req.Nombre != nil {
		s.cache.Invalidar(ctx, prefijoReportes)
	}
	resp := mapVendedor(*v)
	return &resp, nil
}

func (s *vendedorService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "vendedor")
	}
	s.cache.Invalidar(ctx, prefijoReportes)
	return nil
}
