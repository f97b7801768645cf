package service

import (
	"errors"
	"fmt"
)

// FinanzasError is a domain failure with a machine-checkable code.
// Handlers map the code to an HTTP status and pass both code and message
// to the client verbatim; nothing else is exposed.
type FinanzasError struct {
	Code   string
	Detail string
}

func (e *FinanzasError) Error() string { return e.Detail }

// Is lets errors.Is match against the sentinel values below regardless of
// the Detail text an operation attached.
func (e *FinanzasError) Is(target error) bool {
	var fe *FinanzasError
	if errors.As(target, &fe) {
		return e.Code == fe.Code
	}
	return false
}

// withDetail copies the sentinel with an operation-specific message.
func (e *FinanzasError) withDetail(format string, args ...interface{}) error {
	return &FinanzasError{Code: e.Code, Detail: fmt.Sprintf(format, args...)}
}

// Sentinel domain errors. Match with errors.Is; read the code for transport.
var (
	ErrMontoInvalido          = &FinanzasError{Code: "MONTO_INVALIDO", Detail: "El monto debe ser mayor a cero"}
	ErrCuentasInvalidas       = &FinanzasError{Code: "CUENTAS_INVALIDAS", Detail: "Cuenta de origen o destino invalida"}
	ErrCajaYaAbierta          = &FinanzasError{Code: "CAJA_YA_ABIERTA", Detail: "Ya existe una sesion de caja abierta"}
	ErrCajaNoAbierta          = &FinanzasError{Code: "CAJA_NO_ABIERTA", Detail: "No hay sesion de caja abierta"}
	ErrReservaNoEncontrada    = &FinanzasError{Code: "RESERVA_NO_ENCONTRADA", Detail: "Reserva no encontrada"}
	ErrLiberacionExcede       = &FinanzasError{Code: "LIBERACION_EXCEDE", Detail: "El monto a liberar excede lo disponible en la reserva"}
	ErrReservasInsuficientes  = &FinanzasError{Code: "RESERVAS_INSUFICIENTES", Detail: "Las reservas activas no alcanzan el monto solicitado"}
	ErrSaldoInsuficiente      = &FinanzasError{Code: "SALDO_INSUFICIENTE", Detail: "Saldo insuficiente en la cuenta de origen"}
	ErrCantidadExcede         = &FinanzasError{Code: "CANTIDAD_EXCEDE", Detail: "La cantidad a devolver excede lo disponible"}
	ErrReferenciaNoEncontrada = &FinanzasError{Code: "REFERENCIA_NO_ENCONTRADA", Detail: "Referencia no encontrada"}
	// ErrDeclaradoExcede fires on close when declarado > esperado and the
	// CIERRE_AJUSTE_FALTANTE policy flag is off.
	ErrDeclaradoExcede = &FinanzasError{Code: "DECLARADO_EXCEDE", Detail: "El monto declarado supera el esperado y el ajuste automatico esta deshabilitado"}
)
