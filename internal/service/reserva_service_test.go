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

func TestCrearReserva(t *testing.T) {
	reservaRepo := newFakeReservaRepo()
	movRepo := newFakeMovimientoRepo()
	svc := NewReservaService(reservaRepo, movRepo)

	resp, err := svc.Crear(context.Background(), uuid.New(), dto.CrearReservaRequest{
		Cuenta:      "fisica",
		Monto:       decimal.NewFromFloat(200),
		Descripcion: "Fondo para proveedor",
	})

	require.NoError(t, err)
	assert.Equal(t, "fisica", resp.Cuenta)
	assert.Equal(t, "200", resp.Monto.String())
	assert.Equal(t, "200", resp.Disponible.String())
	assert.False(t, resp.Liberada)

	// The held amount left the ledger as an expense-signed reserve movement.
	require.Len(t, movRepo.movimientos, 1)
	mov := movRepo.movimientos[0]
	assert.Equal(t, model.MovReserva, mov.Tipo)
	assert.Equal(t, -1, mov.Signo)
	assert.Equal(t, "200", mov.Monto.String())
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, resp.ID, mov.ReferenciaID.String())
}

func TestCrearReservaMontoInvalido(t *testing.T) {
	svc := NewReservaService(newFakeReservaRepo(), newFakeMovimientoRepo())

	_, err := svc.Crear(context.Background(), uuid.New(), dto.CrearReservaRequest{
		Cuenta:      "fisica",
		Monto:       decimal.NewFromFloat(-50),
		Descripcion: "negativa",
	})
	assert.ErrorIs(t, err, ErrMontoInvalido)

	_, err = svc.Crear(context.Background(), uuid.New(), dto.CrearReservaRequest{
		Cuenta:      "cueva",
		Monto:       decimal.NewFromFloat(50),
		Descripcion: "cuenta inexistente",
	})
	assert.ErrorIs(t, err, ErrCuentasInvalidas)
}

func TestLiberarParcial(t *testing.T) {
	reservaRepo := newFakeReservaRepo()
	movRepo := newFakeMovimientoRepo()
	svc := NewReservaService(reservaRepo, movRepo)
	usuario := uuid.New()

	creada, err := svc.Crear(context.Background(), usuario, dto.CrearReservaRequest{
		Cuenta:      "fisica",
		Monto:       decimal.NewFromFloat(200),
		Descripcion: "Para arreglos del local",
	})
	require.NoError(t, err)
	reservaID := uuid.MustParse(creada.ID)

	resp, err := svc.Liberar(context.Background(), reservaID, usuario, decimal.NewFromFloat(150))
	require.NoError(t, err)
	assert.Equal(t, "150", resp.MontoLiberado.String())
	assert.Equal(t, "50", resp.Disponible.String())
	assert.False(t, resp.Liberada)

	// Release posts the matching income movement: net ledger effect of
	// reserve(200) + release(150) is -50 on the account.
	saldo, err := movRepo.SaldoHasta(context.Background(), model.CuentaFisica, nil)
	require.NoError(t, err)
	assert.Equal(t, "-50", saldo.String())

	// Releasing the remaining 50 marks the reserve fully released.
	resp, err = svc.Liberar(context.Background(), reservaID, usuario, decimal.NewFromFloat(50))
	require.NoError(t, err)
	assert.True(t, resp.Liberada)
	assert.Equal(t, "0", resp.Disponible.String())
}

func TestLiberarExcedeDisponible(t *testing.T) {
	reservaRepo := newFakeReservaRepo()
	svc := NewReservaService(reservaRepo, newFakeMovimientoRepo())
	usuario := uuid.New()

	creada, err := svc.Crear(context.Background(), usuario, dto.CrearReservaRequest{
		Cuenta:      "virtual",
		Monto:       decimal.NewFromFloat(100),
		Descripcion: "Reserva chica",
	})
	require.NoError(t, err)
	reservaID := uuid.MustParse(creada.ID)

	_, err = svc.Liberar(context.Background(), reservaID, usuario, decimal.NewFromFloat(80))
	require.NoError(t, err)

	// 20 remain; asking for 21 must fail and leave the reserve untouched.
	_, err = svc.Liberar(context.Background(), reservaID, usuario, decimal.NewFromFloat(21))
	assert.ErrorIs(t, err, ErrLiberacionExcede)

	reserva, err := reservaRepo.FindByID(context.Background(), reservaID)
	require.NoError(t, err)
	assert.Equal(t, "20", reserva.Disponible().String())
}

func TestLiberarReservaInexistente(t *testing.T) {
	svc := NewReservaService(newFakeReservaRepo(), newFakeMovimientoRepo())

	_, err := svc.Liberar(context.Background(), uuid.New(), uuid.New(), decimal.NewFromFloat(10))
	assert.ErrorIs(t, err, ErrReservaNoEncontrada)
}

func TestExtraerFIFO(t *testing.T) {
	reservaRepo := newFakeReservaRepo()
	movRepo := newFakeMovimientoRepo()
	svc := NewReservaService(reservaRepo, movRepo)
	usuario := uuid.New()

	// Three reserves created oldest to newest: 100, 50, 200.
	ids := make([]string, 0, 3)
	for _, monto := range []float64{100, 50, 200} {
		resp, err := svc.Crear(context.Background(), usuario, dto.CrearReservaRequest{
			Cuenta:      "fisica",
			Monto:       decimal.NewFromFloat(monto),
			Descripcion: "lote",
		})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	// 180 drains the first fully (100), the second fully (50) and 30 of the
	// third.
	resp, err := svc.Extraer(context.Background(), usuario, dto.ExtraerReservasRequest{
		Cuenta: "fisica",
		Monto:  decimal.NewFromFloat(180),
	})
	require.NoError(t, err)
	require.Len(t, resp.Aplicaciones, 3)
	assert.Equal(t, ids[0], resp.Aplicaciones[0].ReservaID)
	assert.Equal(t, "100", resp.Aplicaciones[0].Monto.String())
	assert.Equal(t, ids[1], resp.Aplicaciones[1].ReservaID)
	assert.Equal(t, "50", resp.Aplicaciones[1].Monto.String())
	assert.Equal(t, ids[2], resp.Aplicaciones[2].ReservaID)
	assert.Equal(t, "30", resp.Aplicaciones[2].Monto.String())

	disponible, err := svc.Disponible(context.Background(), model.CuentaFisica)
	require.NoError(t, err)
	assert.Equal(t, "170", disponible.String())
}

func TestExtraerInsuficiente(t *testing.T) {
	reservaRepo := newFakeReservaRepo()
	svc := NewReservaService(reservaRepo, newFakeMovimientoRepo())
	usuario := uuid.New()

	_, err := svc.Crear(context.Background(), usuario, dto.CrearReservaRequest{
		Cuenta:      "fisica",
		Monto:       decimal.NewFromFloat(120),
		Descripcion: "unica reserva",
	})
	require.NoError(t, err)

	// All-or-nothing: asking for more than the total held leaves every
	// reserve exactly as it was.
	_, err = svc.Extraer(context.Background(), usuario, dto.ExtraerReservasRequest{
		Cuenta: "fisica",
		Monto:  decimal.NewFromFloat(150),
	})
	assert.ErrorIs(t, err, ErrReservasInsuficientes)

	disponible, err := svc.Disponible(context.Background(), model.CuentaFisica)
	require.NoError(t, err)
	assert.Equal(t, "120", disponible.String())
}

func TestPlanExtraccionSaltaVacias(t *testing.T) {
	agotada := &model.Reserva{ID: uuid.New(), Monto: decimal.NewFromFloat(40), MontoLiberado: decimal.NewFromFloat(40)}
	viva := &model.Reserva{ID: uuid.New(), Monto: decimal.NewFromFloat(60)}

	plan, restante := planExtraccion([]*model.Reserva{agotada, viva}, decimal.NewFromFloat(25))
	require.Len(t, plan, 1)
	assert.Equal(t, viva.ID, plan[0].reserva.ID)
	assert.Equal(t, "25", plan[0].monto.String())
	assert.True(t, restante.IsZero())

	// Objetivo beyond coverage reports the uncovered remainder.
	_, restante = planExtraccion([]*model.Reserva{agotada, viva}, decimal.NewFromFloat(90))
	assert.Equal(t, "30", restante.String())
}
