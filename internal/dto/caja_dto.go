package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CerrarCajaRequest struct {
	MontoDeclarado decimal.Decimal `json:"monto_declarado" validate:"min=0"`
}

type MovimientoManualRequest struct {
	Cuenta      string          `json:"cuenta"      validate:"required,oneof=fisica virtual"`
	Tipo        string          `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
}

type ListarMovimientosRequest struct {
	Cuenta string `form:"cuenta" validate:"omitempty,oneof=fisica virtual"`
	Tipo   string `form:"tipo"   validate:"omitempty,oneof=ingreso egreso transferencia reserva ajuste"`
	Desde  string `form:"desde"  validate:"omitempty"`
	Hasta  string `form:"hasta"  validate:"omitempty"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionCajaResponse struct {
	ID             string           `json:"id"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado  *decimal.Decimal `json:"monto_esperado,omitempty"`
	MontoDeclarado *decimal.Decimal `json:"monto_declarado,omitempty"`
	Estado         string           `json:"estado"`
	OpenedAt       string           `json:"opened_at"`
	ClosedAt       *string          `json:"closed_at,omitempty"`
}

type EstadoCajaResponse struct {
	Abierta      bool                `json:"abierta"`
	Sesion       *SesionCajaResponse `json:"sesion,omitempty"`
	SaldoFisica  decimal.Decimal     `json:"saldo_fisica"`
	SaldoVirtual decimal.Decimal     `json:"saldo_virtual"`
}

type CierreCajaResponse struct {
	SesionCajaID string          `json:"sesion_caja_id"`
	Esperado     decimal.Decimal `json:"esperado"`
	Declarado    decimal.Decimal `json:"declarado"`
	// ReservaAutomatica is the surplus held back when esperado > declarado.
	ReservaAutomatica decimal.Decimal `json:"reserva_automatica"`
	// Ajuste is the upward correction posted when declarado > esperado.
	Ajuste decimal.Decimal `json:"ajuste"`
}

type MovimientoResponse struct {
	ID             string          `json:"id"`
	Cuenta         string          `json:"cuenta"`
	Tipo           string          `json:"tipo"`
	Signo          int             `json:"signo"`
	Monto          decimal.Decimal `json:"monto"`
	Descripcion    string          `json:"descripcion"`
	ReferenciaTipo *string         `json:"referencia_tipo,omitempty"`
	ReferenciaID   *string         `json:"referencia_id,omitempty"`
	SesionCajaID   *string         `json:"sesion_caja_id,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
