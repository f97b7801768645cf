package dto

import "github.com/shopspring/decimal"

type TransferenciaRequest struct {
	Origen      string          `json:"origen"      validate:"required,oneof=fisica virtual"`
	Destino     string          `json:"destino"     validate:"required,oneof=fisica virtual"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"omitempty,max=255"`
}

type TransferenciaResponse struct {
	ReferenciaID string          `json:"referencia_id"`
	Origen       string          `json:"origen"`
	Destino      string          `json:"destino"`
	Monto        decimal.Decimal `json:"monto"`
}

// ResumenCuentasResponse is the on-demand projection over the ledger plus
// reserve availability. Saldos already exclude held funds (reserve postings
// are expense-signed), so Total adds the holds back in.
type ResumenCuentasResponse struct {
	SaldoFisica     decimal.Decimal `json:"saldo_fisica"`
	SaldoVirtual    decimal.Decimal `json:"saldo_virtual"`
	ReservasFisica  decimal.Decimal `json:"reservas_fisica"`
	ReservasVirtual decimal.Decimal `json:"reservas_virtual"`
	Total           decimal.Decimal `json:"total"`
}
