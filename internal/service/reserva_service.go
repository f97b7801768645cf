package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReservaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearReservaRequest) (*dto.ReservaResponse, error)
	// CrearEnTx raises a reserve inside an already-open transaction. Used by
	// the cash close to hold surpluses atomically with the session update.
	CrearEnTx(tx *gorm.DB, cuenta model.Cuenta, monto decimal.Decimal, descripcion string, usuarioID *uuid.UUID, sesionID *uuid.UUID) (*model.Reserva, error)
	Liberar(ctx context.Context, reservaID, usuarioID uuid.UUID, monto decimal.Decimal) (*dto.ReservaResponse, error)
	// Extraer drains monto from the oldest active reserves of the cuenta,
	// partially releasing as many as needed. All-or-nothing.
	Extraer(ctx context.Context, usuarioID uuid.UUID, req dto.ExtraerReservasRequest) (*dto.ExtraccionResponse, error)
	Disponible(ctx context.Context, cuenta model.Cuenta) (decimal.Decimal, error)
	Listar(ctx context.Context, cuenta *model.Cuenta) ([]dto.ReservaResponse, error)
}

type reservaService struct {
	reservaRepo repository.ReservaRepository
	movRepo     repository.MovimientoRepository
}

func NewReservaService(reservaRepo repository.ReservaRepository, movRepo repository.MovimientoRepository) ReservaService {
	return &reservaService{reservaRepo: reservaRepo, movRepo: movRepo}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *reservaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearReservaRequest) (*dto.ReservaResponse, error) {
	cuenta := model.Cuenta(req.Cuenta)
	if !cuenta.Valida() {
		return nil, ErrCuentasInvalidas
	}
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	var reserva *model.Reserva
	err := runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		reserva, err = s.CrearEnTx(tx, cuenta, req.Monto, req.Descripcion, &usuarioID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := reservaToResponse(reserva)
	return &resp, nil
}

func (s *reservaService) CrearEnTx(tx *gorm.DB, cuenta model.Cuenta, monto decimal.Decimal, descripcion string, usuarioID *uuid.UUID, sesionID *uuid.UUID) (*model.Reserva, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	reserva := &model.Reserva{
		Cuenta:        cuenta,
		Monto:         monto,
		MontoLiberado: decimal.Zero,
		Descripcion:   descripcion,
		UsuarioID:     usuarioID,
	}
	if err := s.reservaRepo.CreateTx(tx, reserva); err != nil {
		return nil, err
	}

	// The held amount leaves the available balance as an expense-signed
	// reserve movement, so dashboards stay consistent with the ledger.
	refTipo := model.RefReserva
	mov, err := buildMovimiento(MovimientoParams{
		Cuenta:         cuenta,
		Tipo:           model.MovReserva,
		Signo:          -1,
		Monto:          monto,
		Descripcion:    descripcion,
		UsuarioID:      usuarioID,
		ReferenciaTipo: &refTipo,
		ReferenciaID:   &reserva.ID,
		SesionCajaID:   sesionID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.movRepo.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return reserva, nil
}

// ── Liberar ───────────────────────────────────────────────────────────────────

func (s *reservaService) Liberar(ctx context.Context, reservaID, usuarioID uuid.UUID, monto decimal.Decimal) (*dto.ReservaResponse, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	var reserva *model.Reserva
	err := runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		reserva, err = s.reservaRepo.FindByIDTx(tx, reservaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservaNoEncontrada
			}
			return err
		}
		return s.liberarEnTx(tx, reserva, monto, &usuarioID)
	})
	if err != nil {
		return nil, err
	}
	resp := reservaToResponse(reserva)
	return &resp, nil
}

// liberarEnTx applies one partial release to an already-locked reserve and
// posts the matching income movement.
func (s *reservaService) liberarEnTx(tx *gorm.DB, reserva *model.Reserva, monto decimal.Decimal, usuarioID *uuid.UUID) error {
	if monto.GreaterThan(reserva.Disponible()) {
		return ErrLiberacionExcede
	}

	reserva.MontoLiberado = reserva.MontoLiberado.Add(monto)
	reserva.Liberada = !reserva.Activa()
	if err := s.reservaRepo.UpdateTx(tx, reserva); err != nil {
		return err
	}

	refTipo := model.RefReserva
	mov, err := buildMovimiento(MovimientoParams{
		Cuenta:         reserva.Cuenta,
		Tipo:           model.MovReserva,
		Signo:          1,
		Monto:          monto,
		Descripcion:    "Liberacion de reserva: " + reserva.Descripcion,
		UsuarioID:      usuarioID,
		ReferenciaTipo: &refTipo,
		ReferenciaID:   &reserva.ID,
	})
	if err != nil {
		return err
	}
	return s.movRepo.CreateTx(tx, mov)
}

// ── Extraer ───────────────────────────────────────────────────────────────────

// aplicacion is one (reserva, monto) pair of an extraction plan.
type aplicacion struct {
	reserva *model.Reserva
	monto   decimal.Decimal
}

// planExtraccion folds over reserves ordered oldest first and returns the
// applications needed to cover objetivo plus whatever could not be covered.
// Reserves with nothing left are skipped. Pure; no mutation.
func planExtraccion(reservas []*model.Reserva, objetivo decimal.Decimal) ([]aplicacion, decimal.Decimal) {
	restante := objetivo
	var plan []aplicacion
	for _, r := range reservas {
		if !restante.IsPositive() {
			break
		}
		disp := r.Disponible()
		if !disp.IsPositive() {
			continue
		}
		aplicado := decimal.Min(disp, restante)
		plan = append(plan, aplicacion{reserva: r, monto: aplicado})
		restante = restante.Sub(aplicado)
	}
	return plan, restante
}

func (s *reservaService) Extraer(ctx context.Context, usuarioID uuid.UUID, req dto.ExtraerReservasRequest) (*dto.ExtraccionResponse, error) {
	cuenta := model.Cuenta(req.Cuenta)
	if !cuenta.Valida() {
		return nil, ErrCuentasInvalidas
	}
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	resp := &dto.ExtraccionResponse{Cuenta: req.Cuenta, Monto: req.Monto}
	err := runTx(ctx, s.reservaRepo.DB(), func(tx *gorm.DB) error {
		// Rows come back locked FOR UPDATE; concurrent extractions queue
		// behind this drain instead of double-spending.
		activas, err := s.reservaRepo.ListActivasTx(tx, cuenta)
		if err != nil {
			return err
		}
		reservas := make([]*model.Reserva, len(activas))
		for i := range activas {
			reservas[i] = &activas[i]
		}

		plan, restante := planExtraccion(reservas, req.Monto)
		if restante.IsPositive() {
			return ErrReservasInsuficientes
		}

		for _, ap := range plan {
			if err := s.liberarEnTx(tx, ap.reserva, ap.monto, &usuarioID); err != nil {
				return err
			}
			resp.Aplicaciones = append(resp.Aplicaciones, dto.AplicacionExtraccion{
				ReservaID: ap.reserva.ID.String(),
				Monto:     ap.monto,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *reservaService) Disponible(ctx context.Context, cuenta model.Cuenta) (decimal.Decimal, error) {
	if !cuenta.Valida() {
		return decimal.Zero, ErrCuentasInvalidas
	}
	return s.reservaRepo.SumDisponible(ctx, cuenta)
}

func (s *reservaService) Listar(ctx context.Context, cuenta *model.Cuenta) ([]dto.ReservaResponse, error) {
	reservas, err := s.reservaRepo.List(ctx, cuenta)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ReservaResponse, len(reservas))
	for i := range reservas {
		resp[i] = reservaToResponse(&reservas[i])
	}
	return resp, nil
}

func reservaToResponse(r *model.Reserva) dto.ReservaResponse {
	return dto.ReservaResponse{
		ID:            r.ID.String(),
		Cuenta:        string(r.Cuenta),
		Monto:         r.Monto,
		MontoLiberado: r.MontoLiberado,
		Disponible:    r.Disponible(),
		Descripcion:   r.Descripcion,
		Liberada:      r.Liberada,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
