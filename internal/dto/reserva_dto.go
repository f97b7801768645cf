package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearReservaRequest struct {
	Cuenta      string          `json:"cuenta"      validate:"required,oneof=fisica virtual"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
}

type LiberarReservaRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required,gt=0"`
}

type ExtraerReservasRequest struct {
	Cuenta string          `json:"cuenta" validate:"required,oneof=fisica virtual"`
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReservaResponse struct {
	ID            string          `json:"id"`
	Cuenta        string          `json:"cuenta"`
	Monto         decimal.Decimal `json:"monto"`
	MontoLiberado decimal.Decimal `json:"monto_liberado"`
	Disponible    decimal.Decimal `json:"disponible"`
	Descripcion   string          `json:"descripcion"`
	Liberada      bool            `json:"liberada"`
	CreatedAt     string          `json:"created_at"`
}

// ExtraccionResponse reports how an extraction was satisfied across the
// drained reserves, oldest first.
type ExtraccionResponse struct {
	Cuenta       string                 `json:"cuenta"`
	Monto        decimal.Decimal        `json:"monto"`
	Aplicaciones []AplicacionExtraccion `json:"aplicaciones"`
}

type AplicacionExtraccion struct {
	ReservaID string          `json:"reserva_id"`
	Monto     decimal.Decimal `json:"monto"`
}
