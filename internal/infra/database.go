package infra

import (
	"fmt"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Modelos lists every persisted row type, parents before children.
var Modelos = []any{
	&model.Vendedor{},
	&model.Cliente{},
	&model.Producto{},
	&model.Curva{},
	&model.Pedido{},
	&model.ItemPedido{},
	&model.UserRole{},
}

// NewDatabase opens a GORM connection backed by pgx, migrates the tables and
// applies the constraints GORM cannot express (referential actions, checks).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
		// Foreign keys are created by applySchemaPatches with explicit ON DELETE actions
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrar(db); err != nil {
		return nil, err
	}
	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// Migrar creates or updates every table. It is dialect-agnostic so tests can
// run it against SQLite.
func Migrar(db *gorm.DB) error {
	if err := db.AutoMigrate(Modelos...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

// fkPatch adds a named foreign key unless it already exists.
func fkPatch(nombre, tabla, columna, ref, onDelete string) string {
	return fmt.Sprintf(`DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
    ALTER TABLE %[2]s ADD CONSTRAINT %[1]s
      FOREIGN KEY (%[3]s) REFERENCES %[4]s(id) ON DELETE %[5]s;
  END IF;
END $$`, nombre, tabla, columna, ref, onDelete)
}

// checkPatch adds a named CHECK constraint unless it already exists.
func checkPatch(nombre, tabla, expr string) string {
	return fmt.Sprintf(`DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
    ALTER TABLE %[2]s ADD CONSTRAINT %[1]s CHECK (%[3]s);
  END IF;
END $$`, nombre, tabla, expr)
}

// applySchemaPatches is idempotent: every statement checks pg_constraint first.
// The ON DELETE actions mirror the repository delete policy so the database
// rejects what the API would reject.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"clientes.vendedor_id", fkPatch("fk_clientes_vendedor", "clientes", "vendedor_id", "vendedores", "SET NULL")},
		{"pedidos.cliente_id", fkPatch("fk_pedidos_cliente", "pedidos", "cliente_id", "clientes", "RESTRICT")},
		{"pedidos.vendedor_id", fkPatch("fk_pedidos_vendedor", "pedidos", "vendedor_id", "vendedores", "SET NULL")},
		{"items_pedido.pedido_id", fkPatch("fk_items_pedido_pedido", "items_pedido", "pedido_id", "pedidos", "CASCADE")},
		{"items_pedido.producto_id", fkPatch("fk_items_pedido_producto", "items_pedido", "producto_id", "productos", "RESTRICT")},
		{"items_pedido.curva_id", fkPatch("fk_items_pedido_curva", "items_pedido", "curva_id", "curvas", "RESTRICT")},
		{"user_roles.cliente_id", fkPatch("fk_user_roles_cliente", "user_roles", "cliente_id", "clientes", "CASCADE")},
		{"productos.precio_usd >= 0", checkPatch("chk_productos_precio", "productos", "precio_usd >= 0")},
		{"items_pedido.curva_count >= 1", checkPatch("chk_items_pedido_curva_count", "items_pedido", "curva_count >= 1")},
		{"clientes.tier", checkPatch("chk_clientes_tier", "clientes", "tier IN ('bronce','plata','oro','platino')")},
		{"user_roles.role", checkPatch("chk_user_roles_role", "user_roles",
			"role = 'admin' OR (role IN ('cliente','vendedor_cliente') AND cliente_id IS NOT NULL)")},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
