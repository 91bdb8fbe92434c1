package repository

import (
	"context"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendedorRepository interface {
	Create(ctx context.Context, v *model.Vendedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendedor, error)
	List(ctx context.Context) ([]model.Vendedor, error)
	Update(ctx context.Context, v *model.Vendedor) error
	// Delete removes the vendor and nullifies every client/order pointing to it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type vendedorRepo struct{ db *gorm.DB }

func NewVendedorRepository(db *gorm.DB) VendedorRepository { return &vendedorRepo{db: db} }

func (r *vendedorRepo) Create(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendedor, error) {
	var v model.Vendedor
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *vendedorRepo) List(ctx context.Context) ([]model.Vendedor, error) {
	var vendedores []model.Vendedor
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&vendedores).Error
	return vendedores, err
}

func (r *vendedorRepo) Update(ctx context.Context, v *model.Vendedor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vendedorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Cliente{}).Where("vendedor_id = ?", id).Update("vendedor_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Pedido{}).Where("vendedor_id = ?", id).Update("vendedor_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Vendedor{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
