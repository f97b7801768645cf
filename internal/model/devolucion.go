package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price policies for exchanged items.
// "original": exchanged items priced at the returned line's original price.
// "actual":   exchanged items priced from the current catalog.
const (
	PoliticaPrecioOriginal = "original"
	PoliticaPrecioActual   = "actual"
)

// Devolucion records a return/exchange against a venta. The net settlement
// (totalCambiado - totalDevuelto) is posted to the ledger as a single
// movement referencing this record.
type Devolucion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cuenta         Cuenta          `gorm:"type:varchar(10);not null"`
	PoliticaPrecio string          `gorm:"type:varchar(10);not null"`
	TotalDevuelto  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCambiado  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Neto = TotalCambiado - TotalDevuelto; sign decides income vs expense.
	Neto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time

	Items []DevolucionItem `gorm:"foreignKey:DevolucionID"`
}

// TableName overrides GORM's pluralization (devolucions → devoluciones).
func (Devolucion) TableName() string { return "devoluciones" }

// DevolucionItem is one returned or exchanged line.
// Tipo: "devuelto" | "cambiado".
type DevolucionItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DevolucionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Tipo           string          `gorm:"type:varchar(10);not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName overrides GORM's pluralization.
func (DevolucionItem) TableName() string { return "devolucion_items" }
