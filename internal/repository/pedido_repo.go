package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/dto"
	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FiltroPedidos narrows order queries; zero values mean "no filter".
type FiltroPedidos struct {
	ClienteID  *uuid.UUID
	VendedorID *uuid.UUID
	Estado     string
	Desde      string // YYYY-MM-DD
	Hasta      string // YYYY-MM-DD, inclusive
	// SinCancelados drops "cancelado" orders when Estado is empty
	SinCancelados bool
}

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filtro FiltroPedidos, page, limit int) ([]model.Pedido, int64, error)
	// ListCompletos returns every matching order with client, vendor, items,
	// products and curves preloaded. It feeds the report rollup.
	ListCompletos(ctx context.Context, filtro FiltroPedidos) ([]model.Pedido, error)
	Update(ctx context.Context, p *model.Pedido) error
	// Delete removes the order and its line items.
	Delete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	if tx == nil {
		tx = r.db
	}
	db := tx.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		return err
	}
	if len(p.Items) == 0 {
		return nil
	}
	for i := range p.Items {
		p.Items[i].PedidoID = p.ID
	}
	return db.Omit(clause.Associations).Create(&p.Items).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := preloadCompleto(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filtro FiltroPedidos, page, limit int) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q, err := aplicarFiltro(r.db.WithContext(ctx).Model(&model.Pedido{}), filtro)
	if err != nil {
		return nil, 0, err
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err = preloadCompleto(q).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) ListCompletos(ctx context.Context, filtro FiltroPedidos) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	q, err := aplicarFiltro(r.db.WithContext(ctx).Model(&model.Pedido{}), filtro)
	if err != nil {
		return nil, err
	}
	err = preloadCompleto(q).Order("created_at ASC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) Update(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", p.ID).
		Updates(map[string]any{
			"estado":      p.Estado,
			"vendedor_id": p.VendedorID,
		}).Error
}

func (r *pedidoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", id).Delete(&model.ItemPedido{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Pedido{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FiltroDesdeLista converts the list query string into a FiltroPedidos.
func FiltroDesdeLista(f dto.PedidoFilter) (FiltroPedidos, error) {
	return construirFiltro(f.ClienteID, f.VendedorID, f.Estado, f.Desde, f.Hasta, false)
}

// FiltroDesdeReporte converts the report query string into a FiltroPedidos.
func FiltroDesdeReporte(f dto.ReporteFilter) (FiltroPedidos, error) {
	return construirFiltro(f.ClienteID, f.VendedorID, f.Estado, f.Desde, f.Hasta, !f.IncluirCancelados)
}

func construirFiltro(clienteID, vendedorID, estado, desde, hasta string, sinCancelados bool) (FiltroPedidos, error) {
	filtro := FiltroPedidos{Estado: estado, Desde: desde, Hasta: hasta, SinCancelados: sinCancelados}
	if clienteID != "" {
		id, err := uuid.Parse(clienteID)
		if err != nil {
			return filtro, fmt.Errorf("cliente_id inválido: %w", err)
		}
		filtro.ClienteID = &id
	}
	if vendedorID != "" {
		id, err := uuid.Parse(vendedorID)
		if err != nil {
			return filtro, fmt.Errorf("vendedor_id inválido: %w", err)
		}
		filtro.VendedorID = &id
	}
	return filtro, nil
}

func preloadCompleto(q *gorm.DB) *gorm.DB {
	return q.Preload("Cliente").Preload("Vendedor").Preload("Items.Producto").Preload("Items.Curva")
}

func aplicarFiltro(q *gorm.DB, f FiltroPedidos) (*gorm.DB, error) {
	if f.ClienteID != nil {
		q = q.Where("cliente_id = ?", *f.ClienteID)
	}
	if f.VendedorID != nil {
		q = q.Where("vendedor_id = ?", *f.VendedorID)
	}
	switch {
	case f.Estado != "":
		q = q.Where("estado = ?", f.Estado)
	case f.SinCancelados:
		q = q.Where("estado <> ?", model.EstadoCancelado)
	}
	if f.Desde != "" {
		desde, err := time.Parse("2006-01-02", f.Desde)
		if err != nil {
			return nil, fmt.Errorf("desde inválido: %w", err)
		}
		q = q.Where("created_at >= ?", desde)
	}
	if f.Hasta != "" {
		hasta, err := time.Parse("2006-01-02", f.Hasta)
		if err != nil {
			return nil, fmt.Errorf("hasta inválido: %w", err)
		}
		q = q.Where("created_at < ?", hasta.AddDate(0, 0, 1))
	}
	return q, nil
}
