package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate(t *testing.T) {
	// Valid payload passes.
	c, _ := testContext(`{"cuenta":"fisica","monto":"150.50","descripcion":"Apartado proveedor"}`)
	var req dto.CrearReservaRequest
	assert.True(t, bindAndValidate(c, &req))
	assert.Equal(t, "150.5", req.Monto.String())

	// Malformed JSON: 400.
	c, w := testContext(`{"cuenta":`)
	assert.False(t, bindAndValidate(c, &dto.CrearReservaRequest{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Valid JSON failing a validator tag: 422 with the field reported.
	c, w = testContext(`{"cuenta":"bancaria","monto":"10","descripcion":"xxx"}`)
	assert.False(t, bindAndValidate(c, &dto.CrearReservaRequest{}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "Cuenta")

	// gt=0 must reject a zero decimal.
	c, w = testContext(`{"cuenta":"fisica","monto":"0","descripcion":"xxx"}`)
	assert.False(t, bindAndValidate(c, &dto.CrearReservaRequest{}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRespondErrorMapsCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrReservaNoEncontrada, http.StatusNotFound, "RESERVA_NO_ENCONTRADA"},
		{service.ErrReferenciaNoEncontrada, http.StatusNotFound, "REFERENCIA_NO_ENCONTRADA"},
		{service.ErrCajaYaAbierta, http.StatusConflict, "CAJA_YA_ABIERTA"},
		{service.ErrCajaNoAbierta, http.StatusConflict, "CAJA_NO_ABIERTA"},
		{service.ErrSaldoInsuficiente, http.StatusConflict, "SALDO_INSUFICIENTE"},
		{service.ErrReservasInsuficientes, http.StatusConflict, "RESERVAS_INSUFICIENTES"},
		{service.ErrLiberacionExcede, http.StatusConflict, "LIBERACION_EXCEDE"},
		{service.ErrMontoInvalido, http.StatusBadRequest, "MONTO_INVALIDO"},
		{service.ErrCuentasInvalidas, http.StatusBadRequest, "CUENTAS_INVALIDAS"},
	}

	for _, tc := range cases {
		c, w := testContext("")
		respondError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.code)

		var body struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
	}
}
