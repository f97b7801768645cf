package handler

import (
	"net/http"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/apierror"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/middleware"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservasHandler struct{ svc service.ReservaService }

func NewReservasHandler(svc service.ReservaService) *ReservasHandler {
	return &ReservasHandler{svc: svc}
}

// Crear godoc
// @Summary Crea una reserva de fondos sobre una cuenta
// @Tags reservas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearReservaRequest true "Datos de la reserva"
// @Success 201 {object} dto.ReservaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/reservas [post]
func (h *ReservasHandler) Crear(c *gin.Context) {
	var req dto.CrearReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Liberar godoc
// @Summary Libera (parcialmente) una reserva
// @Tags reservas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la reserva"
// @Param body body dto.LiberarReservaRequest true "Monto a liberar"
// @Success 200 {object} dto.ReservaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/reservas/{id}/liberar [post]
func (h *ReservasHandler) Liberar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.LiberarReservaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Liberar(c.Request.Context(), id, usuarioID, req.Monto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Extraer godoc
// @Summary Extrae un monto drenando las reservas mas antiguas primero
// @Tags reservas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ExtraerReservasRequest true "Cuenta y monto"
// @Success 200 {object} dto.ExtraccionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/reservas/extraer [post]
func (h *ReservasHandler) Extraer(c *gin.Context) {
	var req dto.ExtraerReservasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Extraer(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista reservas, opcionalmente por cuenta
// @Tags reservas
// @Produce json
// @Security BearerAuth
// @Param cuenta query string false "fisica | virtual"
// @Success 200 {array} dto.ReservaResponse
// @Router /v1/reservas [get]
func (h *ReservasHandler) Listar(c *gin.Context) {
	var cuenta *model.Cuenta
	if q := c.Query("cuenta"); q != "" {
		cu := model.Cuenta(q)
		if !cu.Valida() {
			c.JSON(http.StatusBadRequest, apierror.New("cuenta invalida"))
			return
		}
		cuenta = &cu
	}
	resp, err := h.svc.Listar(c.Request.Context(), cuenta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
