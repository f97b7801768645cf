package service

import (
	"context"
	"testing"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumenCuentas(t *testing.T) {
	movRepo := newFakeMovimientoRepo()
	reservaRepo := newFakeReservaRepo()
	reservas := NewReservaService(reservaRepo, movRepo)
	svc := NewFinanzasService(movRepo, reservaRepo)
	ctx := context.Background()

	require.NoError(t, movRepo.Create(ctx, &model.Movimiento{
		Cuenta: model.CuentaFisica, Tipo: model.MovIngreso, Signo: 1,
		Monto: decimal.NewFromFloat(1000), Descripcion: "Ventas",
	}))
	require.NoError(t, movRepo.Create(ctx, &model.Movimiento{
		Cuenta: model.CuentaVirtual, Tipo: model.MovIngreso, Signo: 1,
		Monto: decimal.NewFromFloat(500), Descripcion: "Cobros",
	}))

	// Holding 300 moves money from saldo to reservas without changing the
	// total.
	_, err := reservas.Crear(ctx, uuid.New(), dto.CrearReservaRequest{
		Cuenta: "fisica", Monto: decimal.NewFromFloat(300), Descripcion: "Apartado",
	})
	require.NoError(t, err)

	resumen, err := svc.Resumen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "700", resumen.SaldoFisica.String())
	assert.Equal(t, "500", resumen.SaldoVirtual.String())
	assert.Equal(t, "300", resumen.ReservasFisica.String())
	assert.Equal(t, "0", resumen.ReservasVirtual.String())
	assert.Equal(t, "1500", resumen.Total.String())
}
