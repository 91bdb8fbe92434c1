package repository

import (
	"context"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CurvaRepository interface {
	Create(ctx context.Context, c *model.Curva) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Curva, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Curva, error)
	List(ctx context.Context, genero string) ([]model.Curva, error)
	Update(ctx context.Context, c *model.Curva) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type curvaRepo struct{ db *gorm.DB }

func NewCurvaRepository(db *gorm.DB) CurvaRepository { return &curvaRepo{db: db} }

func (r *curvaRepo) Create(ctx context.Context, c *model.Curva) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *curvaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Curva, error) {
	var c model.Curva
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *curvaRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Curva, error) {
	var curvas []model.Curva
	if len(ids) == 0 {
		return curvas, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&curvas).Error
	return curvas, err
}

func (r *curvaRepo) List(ctx context.Context, genero string) ([]model.Curva, error) {
	var curvas []model.Curva
	q := r.db.WithContext(ctx)
	if genero != "" {
		q = q.Where("genero = ?", genero)
	}
	err := q.Order("nombre ASC").Find(&curvas).Error
	return curvas, err
}

func (r *curvaRepo) Update(ctx context.Context, c *model.Curva) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete is rejected with ErrReferenciaEnUso while a line item uses the curve.
func (r *curvaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.ItemPedido{}).Where("curva_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrReferenciaEnUso
		}
		res := tx.Delete(&model.Curva{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
