package service

import (
	"context"
	"errors"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRoleService manages role assignments of external identities.
type UserRoleService interface {
	Crear(ctx context.Context, req dto.UserRoleInsert) (*dto.UserRoleResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.UserRoleResponse, error)
	Listar(ctx context.Context, userID *uuid.UUID) ([]dto.UserRoleResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.UserRoleUpdate) (*dto.UserRoleResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type userRoleService struct {
	repo        repository.UserRoleRepository
	clienteRepo repository.ClienteRepository
}

func NewUserRoleService(repo repository.UserRoleRepository, clienteRepo repository.ClienteRepository) UserRoleService {
	return &userRoleService{repo: repo, clienteRepo: clienteRepo}
}

// validarAsignacion enforces the role/client pairing on the final state of
// the row: client-scoped roles need an existing client, admin takes none.
func (s *userRoleService) validarAsignacion(ctx context.Context, r *model.UserRole) error {
	if !r.Role.Valid() {
		return schema.Campo("role", "oneof")
	}
	if !r.Role.RequiereCliente() {
		r.ClienteID = nil
		return nil
	}
	if r.ClienteID == nil {
		return schema.Campo("cliente_id", "required_for_role")
	}
	if _, err := s.clienteRepo.FindByID(ctx, *r.ClienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schema.Campo("cliente_id", "not_found")
		}
		return err
	}
	return nil
}

func (s *userRoleService) Crear(ctx context.Context, req dto.UserRoleInsert) (*dto.UserRoleResponse, error) {
	id, err := parseOptionalID(req.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, err
	}
	clienteID, err := uuidPtr(req.ClienteID)
	if err != nil {
		return nil, err
	}
	r := &model.UserRole{ID: id, UserID: userID, Role: model.Rol(req.Role), ClienteID: clienteID}
	if req.CreatedAt != nil {
		r.CreatedAt = *req.CreatedAt
	}
	if err := s.validarAsignacion(ctx, r); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, duplicado(err, ErrIDDuplicado)
	}
	resp := mapUserRole(*r)
	return &resp, nil
}

func (s *userRoleService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.UserRoleResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "rol")
	}
	resp := mapUserRole(*r)
	return &resp, nil
}

func (s *userRoleService) Listar(ctx context.Context, userID *uuid.UUID) ([]dto.UserRoleResponse, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserRoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, mapUserRole(r))
	}
	return out, nil
}

func (s *userRoleService) Actualizar(ctx context.Context, id uuid.UUID, req dto.UserRoleUpdate) (*dto.UserRoleResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "rol")
	}
	if req.Role != nil {
		r.Role = model.Rol(*req.Role)
	}
	if req.ClienteID.Set {
		clienteID, err := uuidPtr(req.ClienteID.Ptr())
		if err != nil {
			return nil, err
		}
		r.ClienteID = clienteID
	}
	if err := s.validarAsignacion(ctx, r); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	resp := mapUserRole(*r)
	return &resp, nil
}

func (s *userRoleService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "rol")
	}
	return nil
}
