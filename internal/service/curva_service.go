package service

import (
	"context"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"

	"github.com/google/uuid"
)

// CurvaService defines business operations for size curves.
type CurvaService interface {
	Crear(ctx context.Context, req dto.CurvaInsert) (*dto.CurvaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CurvaResponse, error)
	Listar(ctx context.Context, genero string) ([]dto.CurvaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CurvaUpdate) (*dto.CurvaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type curvaService struct {
	repo repository.CurvaRepository
}

func NewCurvaService(repo repository.CurvaRepository) CurvaService {
	return &curvaService{repo: repo}
}

func (s *curvaService) Crear(ctx context.Context, req dto.CurvaInsert) (*dto.CurvaResponse, error) {
	id, err := parseOptionalID(req.ID)
	if err != nil {
		return nil, err
	}
	c := &model.Curva{ID: id, Nombre: req.Nombre, Genero: req.Genero, Talles: model.MapaTalles(req.Talles)}
	if req.CreatedAt != nil {
		c.CreatedAt = *req.CreatedAt
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicado(err, ErrIDDuplicado)
	}
	resp := mapCurva(*c)
	return &resp, nil
}

func (s *curvaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CurvaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "curva")
	}
	resp := mapCurva(*c)
	return &resp, nil
}

func (s *curvaService) Listar(ctx context.Context, genero string) ([]dto.CurvaResponse, error) {
	list, err := s.repo.List(ctx, genero)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CurvaResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCurva(c))
	}
	return out, nil
}

// Actualizar never rewrites existing line items: their Cantidades were fixed
// when the order was placed.
func (s *curvaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CurvaUpdate) (*dto.CurvaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "curva")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Genero != nil {
		c.Genero = *req.Genero
	}
	if req.Talles != nil {
		c.Talles = model.MapaTalles(req.Talles)
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCurva(*c)
	return &resp, nil
}

func (s *curvaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "curva")
	}
	return nil
}
