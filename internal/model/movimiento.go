package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento.
// Tipo: "ingreso" | "egreso" | "transferencia" | "reserva" | "ajuste"
const (
	MovIngreso       = "ingreso"
	MovEgreso        = "egreso"
	MovTransferencia = "transferencia"
	MovReserva       = "reserva"
	MovAjuste        = "ajuste"
)

// Tipos de referencia que un movimiento puede apuntar.
const (
	RefVenta         = "venta"
	RefDevolucion    = "devolucion"
	RefReserva       = "reserva"
	RefSesion        = "sesion_caja"
	RefTransferencia = "transferencia"
)

// Movimiento is an immutable ledger entry on one of the two accounts.
// Movements are NEVER modified or deleted — corrections create new entries.
// The running balance of a cuenta at time T is SUM(signo * monto) over all
// its movements with created_at <= T.
type Movimiento struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cuenta Cuenta          `gorm:"type:varchar(10);not null;index"`
	Tipo   string          `gorm:"type:varchar(20);not null;index"`
	// Signo: +1 entrada, -1 salida. Monto is always non-negative.
	Signo       int             `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string          `gorm:"not null"`
	// UsuarioID is the actor that caused the posting; nil for system entries.
	UsuarioID *uuid.UUID `gorm:"type:uuid"`
	// ReferenciaTipo + ReferenciaID link to the originating venta, devolucion,
	// reserva, sesion or transferencia.
	ReferenciaTipo *string    `gorm:"type:varchar(20)"`
	ReferenciaID   *uuid.UUID `gorm:"type:uuid;index"`
	// SesionCajaID is the physical session open at posting time, if any.
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time  `gorm:"index"`
}

// TableName overrides GORM's pluralization (movimientos, not movimientoes).
func (Movimiento) TableName() string { return "movimientos" }

// MontoFirmado returns signo * monto.
func (m *Movimiento) MontoFirmado() decimal.Decimal {
	if m.Signo < 0 {
		return m.Monto.Neg()
	}
	return m.Monto
}
