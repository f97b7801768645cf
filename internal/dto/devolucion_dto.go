package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemDevueltoRequest struct {
	VentaItemID string `json:"venta_item_id" validate:"required,uuid"`
	Cantidad    int    `json:"cantidad"      validate:"required,gt=0"`
}

type ItemCambiadoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
}

type DevolucionRequest struct {
	VentaID        string                `json:"venta_id"        validate:"required,uuid"`
	Cuenta         string                `json:"cuenta"          validate:"required,oneof=fisica virtual"`
	PoliticaPrecio string                `json:"politica_precio" validate:"required,oneof=original actual"`
	Devueltos      []ItemDevueltoRequest `json:"devueltos"       validate:"required,min=1,dive"`
	Cambiados      []ItemCambiadoRequest `json:"cambiados"       validate:"omitempty,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DevolucionResponse struct {
	ID            string          `json:"id"`
	VentaID       string          `json:"venta_id"`
	Cuenta        string          `json:"cuenta"`
	TotalDevuelto decimal.Decimal `json:"total_devuelto"`
	TotalCambiado decimal.Decimal `json:"total_cambiado"`
	Neto          decimal.Decimal `json:"neto"`
	CreatedAt     string          `json:"created_at"`
}
