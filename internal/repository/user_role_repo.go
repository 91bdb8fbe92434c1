package repository

import (
	"context"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRoleRepository stores role assignments and answers the three identity
// queries the rest of the API relies on.
type UserRoleRepository interface {
	Create(ctx context.Context, r *model.UserRole) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserRole, error)
	List(ctx context.Context, userID *uuid.UUID) ([]model.UserRole, error)
	Update(ctx context.Context, r *model.UserRole) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ResolveClientID returns the client bound to the user's oldest
	// client-scoped role, or gorm.ErrRecordNotFound.
	ResolveClientID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	// ResolveClientTier returns the tier of the client resolved above.
	ResolveClientTier(ctx context.Context, userID uuid.UUID) (model.Tier, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type userRoleRepo struct{ db *gorm.DB }

func NewUserRoleRepository(db *gorm.DB) UserRoleRepository { return &userRoleRepo{db: db} }

func (r *userRoleRepo) Create(ctx context.Context, ur *model.UserRole) error {
	return r.db.WithContext(ctx).Omit("Cliente").Create(ur).Error
}

func (r *userRoleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.UserRole, error) {
	var ur model.UserRole
	err := r.db.WithContext(ctx).First(&ur, "id = ?", id).Error
	return &ur, err
}

func (r *userRoleRepo) List(ctx context.Context, userID *uuid.UUID) ([]model.UserRole, error) {
	var roles []model.UserRole
	q := r.db.WithContext(ctx)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	err := q.Order("created_at ASC").Find(&roles).Error
	return roles, err
}

func (r *userRoleRepo) Update(ctx context.Context, ur *model.UserRole) error {
	return r.db.WithContext(ctx).Omit("Cliente").Save(ur).Error
}

func (r *userRoleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.UserRole{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRoleRepo) ResolveClientID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var ur model.UserRole
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND cliente_id IS NOT NULL AND role IN ?", userID,
			[]model.Rol{model.RolCliente, model.RolVendedorCliente}).
		Order("created_at ASC").
		First(&ur).Error
	if err != nil {
		return uuid.Nil, err
	}
	return *ur.ClienteID, nil
}

func (r *userRoleRepo) ResolveClientTier(ctx context.Context, userID uuid.UUID) (model.Tier, error) {
	clienteID, err := r.ResolveClientID(ctx, userID)
	if err != nil {
		return "", err
	}
	var c model.Cliente
	if err := r.db.WithContext(ctx).Select("tier").First(&c, "id = ?", clienteID).Error; err != nil {
		return "", err
	}
	return c.Tier, nil
}

func (r *userRoleRepo) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", userID, model.RolAdmin).
		Count(&n).Error
	return n > 0, err
}
