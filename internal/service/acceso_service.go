package service

import (
	"context"
	"errors"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccesoService answers the three role queries every request depends on.
// The user id is the subject of the identity provider's token.
type AccesoService interface {
	// ResolveClientID returns the client of a client-scoped user, or
	// ErrSinCliente.
	ResolveClientID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	ResolveClientTier(ctx context.Context, userID uuid.UUID) (model.Tier, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error)
}

type accesoService struct {
	roles repository.UserRoleRepository
}

func NewAccesoService(roles repository.UserRoleRepository) AccesoService {
	return &accesoService{roles: roles}
}

func sinCliente(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSinCliente
	}
	return err
}

func (s *accesoService) ResolveClientID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	id, err := s.roles.ResolveClientID(ctx, userID)
	if err != nil {
		return uuid.Nil, sinCliente(err)
	}
	return id, nil
}

func (s *accesoService) ResolveClientTier(ctx context.Context, userID uuid.UUID) (model.Tier, error) {
	tier, err := s.roles.ResolveClientTier(ctx, userID)
	if err != nil {
		return "", sinCliente(err)
	}
	return tier, nil
}

func (s *accesoService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.roles.IsAdmin(ctx, userID)
}

func (s *accesoService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	admin, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	me := &dto.MeResponse{UserID: userID.String(), Admin: admin}

	clienteID, err := s.ResolveClientID(ctx, userID)
	switch {
	case errors.Is(err, ErrSinCliente):
		return me, nil
	case err != nil:
		return nil, err
	}
	cid := clienteID.String()
	me.ClienteID = &cid

	tier, err := s.ResolveClientTier(ctx, userID)
	if err != nil && !errors.Is(err, ErrSinCliente) {
		return nil, err
	}
	if tier != "" {
		t := string(tier)
		me.Tier = &t
	}
	return me, nil
}

// alcance is what a caller may see: everything (admin) or one client.
type alcance struct {
	admin     bool
	clienteID uuid.UUID
}

func resolverAlcance(ctx context.Context, acceso AccesoService, userID uuid.UUID) (alcance, error) {
	admin, err := acceso.IsAdmin(ctx, userID)
	if err != nil {
		return alcance{}, err
	}
	if admin {
		return alcance{admin: true}, nil
	}
	clienteID, err := acceso.ResolveClientID(ctx, userID)
	if err != nil {
		return alcance{}, err
	}
	return alcance{clienteID: clienteID}, nil
}
