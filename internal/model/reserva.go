package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reserva holds back funds on a cuenta. Created manually or automatically
// when a cash session closes with a surplus. Mutated only by releases;
// fully released reserves stay as history, never deleted.
type Reserva struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cuenta Cuenta    `gorm:"type:varchar(10);not null;index"`
	Monto  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoLiberado accumulates partial releases; invariant: <= Monto.
	MontoLiberado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Descripcion   string          `gorm:"not null"`
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	// Liberada mirrors MontoLiberado == Monto (legacy flag kept for listings).
	Liberada  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`
}

// Disponible is the amount still held by this reserve.
func (r *Reserva) Disponible() decimal.Decimal {
	return r.Monto.Sub(r.MontoLiberado)
}

// Activa reports whether the reserve still holds funds.
func (r *Reserva) Activa() bool {
	return r.MontoLiberado.LessThan(r.Monto)
}
