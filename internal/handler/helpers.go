package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/apierror"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a domain error to its HTTP status and coded envelope.
// Anything that is not a FinanzasError degrades to a generic 400.
func respondError(c *gin.Context, err error) {
	var fe *service.FinanzasError
	if errors.As(err, &fe) {
		c.JSON(statusFor(fe.Code), apierror.NewCoded(fe.Code, fe.Detail))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

func statusFor(code string) int {
	switch code {
	case "RESERVA_NO_ENCONTRADA", "REFERENCIA_NO_ENCONTRADA":
		return http.StatusNotFound
	case "CAJA_YA_ABIERTA", "CAJA_NO_ABIERTA", "LIBERACION_EXCEDE",
		"RESERVAS_INSUFICIENTES", "SALDO_INSUFICIENTE", "CANTIDAD_EXCEDE",
		"DECLARADO_EXCEDE":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
