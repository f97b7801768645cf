package handler

import (
	"net/http"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/apierror"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/middleware"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FinanzasHandler struct {
	finanzas       service.FinanzasService
	transferencias service.TransferenciaService
}

func NewFinanzasHandler(finanzas service.FinanzasService, transferencias service.TransferenciaService) *FinanzasHandler {
	return &FinanzasHandler{finanzas: finanzas, transferencias: transferencias}
}

// Saldos godoc
// @Summary Resumen de saldos y reservas por cuenta
// @Tags finanzas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumenCuentasResponse
// @Router /v1/finanzas/saldos [get]
func (h *FinanzasHandler) Saldos(c *gin.Context) {
	resp, err := h.finanzas.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transferir godoc
// @Summary Transfiere un monto entre las cuentas fisica y virtual
// @Tags finanzas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.TransferenciaRequest true "Transferencia"
// @Success 201 {object} dto.TransferenciaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/transferencias [post]
func (h *FinanzasHandler) Transferir(c *gin.Context) {
	var req dto.TransferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.transferencias.Transferir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
