package infra

import (
	"fmt"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.SesionCaja{},
		&model.Movimiento{},
		&model.Reserva{},
		&model.Producto{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Devolucion{},
		&model.DevolucionItem{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM cannot express. Each
// statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One open session at a time: a partial unique index over a constant
		// makes the second concurrent INSERT fail with a duplicate-key error.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_sesiones_caja_abierta') THEN
		    CREATE UNIQUE INDEX uni_sesiones_caja_abierta
		        ON sesiones_caja ((1))
		        WHERE estado = 'abierta';
		  END IF;
		END $$`,
		// Drain queries walk active reserves per cuenta oldest-first.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_reservas_activas') THEN
		    CREATE INDEX idx_reservas_activas
		        ON reservas (cuenta, created_at)
		        WHERE monto_liberado < monto;
		  END IF;
		END $$`,
		// Balance queries: cuenta + created_at range scans.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_cuenta_fecha') THEN
		    CREATE INDEX idx_movimientos_cuenta_fecha
		        ON movimientos (cuenta, created_at);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
