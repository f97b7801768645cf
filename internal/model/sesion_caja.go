package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja is the lifecycle of the physical cash drawer.
// Estado: "abierta" | "cerrada". At most one session may be "abierta" at a
// time (enforced transactionally plus a partial unique index).
// The virtual account has no session concept.
type SesionCaja struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MontoInicial      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AperturaUsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	// Closing data — nil while the session is open.
	MontoEsperado   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoDeclarado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CierreUsuarioID *uuid.UUID       `gorm:"type:uuid"`
	Estado          string           `gorm:"type:varchar(20);not null;default:'abierta';index"`
	OpenedAt        time.Time
	ClosedAt        *time.Time
}

// TableName overrides GORM's pluralization (sesion_cajas → sesiones_caja).
func (SesionCaja) TableName() string { return "sesiones_caja" }
