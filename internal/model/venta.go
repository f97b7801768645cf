package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is the sale read model consumed by the returns flow. The cart/checkout
// flow that creates ventas is an external collaborator; the core only reads
// line items and tracks how much of each has already been returned.
type Venta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado    string          `gorm:"type:varchar(20);not null;default:'completada'"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

// VentaItem is one sale line. CantidadDevuelta accumulates across returns;
// a return may never push it past Cantidad.
type VentaItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad         int             `gorm:"not null"`
	PrecioUnitario   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CantidadDevuelta int             `gorm:"not null;default:0"`
}
