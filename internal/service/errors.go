package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoEncontrado       = errors.New("registro no encontrado")
	ErrReferenciaEnUso    = repository.ErrReferenciaEnUso
	ErrSinCliente         = errors.New("el usuario no tiene un cliente asignado")
	ErrSkuDuplicado       = errors.New("ya existe un producto con ese SKU")
	ErrTotalInconsistente = errors.New("total_usd no coincide con la suma de los subtotales")
	ErrCurvaInconsistente = errors.New("las cantidades por talle no coinciden con la curva")
	ErrProductoNoVisible  = errors.New("producto no disponible para el tier del cliente")
	ErrAccesoDenegado     = errors.New("acceso denegado")
	ErrExportNoDisponible = errors.New("exportación por email no disponible")
	ErrIDDuplicado        = errors.New("ya existe un registro con ese id")
)

// notFound translates gorm.ErrRecordNotFound into ErrNoEncontrado, naming
// the entity.
func notFound(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entidad, ErrNoEncontrado)
	}
	return err
}

// duplicado maps a unique violation (gorm.ErrDuplicatedKey, raised with
// TranslateError on) to conflicto.
func duplicado(err, conflicto error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflicto
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseOptionalID parses an optional client-supplied id, nil when absent.
func parseOptionalID(s *string) (uuid.UUID, error) {
	if s == nil || *s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(*s)
}

func uuidPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
