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

// MovimientoParams are the attributes of a single ledger posting.
type MovimientoParams struct {
	Cuenta         model.Cuenta
	Tipo           string
	Signo          int
	Monto          decimal.Decimal
	Descripcion    string
	UsuarioID      *uuid.UUID
	ReferenciaTipo *string
	ReferenciaID   *uuid.UUID
	SesionCajaID   *uuid.UUID
}

type LedgerService interface {
	// Registrar appends one movement. Amounts must be strictly positive;
	// the posting is never mutated afterwards.
	Registrar(ctx context.Context, p MovimientoParams) (*model.Movimiento, error)
	// RegistrarManual posts a manual ingreso/egreso requested by an operator.
	// Egresos verify the account balance; movements on the physical account
	// require an open session.
	RegistrarManual(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error)
	// Saldo is the running balance of the cuenta at hasta (nil = now).
	Saldo(ctx context.Context, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error)
	Listar(ctx context.Context, req dto.ListarMovimientosRequest) (*dto.MovimientoListResponse, error)
}

type ledgerService struct {
	movRepo  repository.MovimientoRepository
	cajaRepo repository.CajaRepository
}

func NewLedgerService(movRepo repository.MovimientoRepository, cajaRepo repository.CajaRepository) LedgerService {
	return &ledgerService{movRepo: movRepo, cajaRepo: cajaRepo}
}

func (s *ledgerService) Registrar(ctx context.Context, p MovimientoParams) (*model.Movimiento, error) {
	mov, err := buildMovimiento(p)
	if err != nil {
		return nil, err
	}
	if err := s.movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// buildMovimiento validates params and materializes the row. Shared by every
// service that posts inside its own transaction.
func buildMovimiento(p MovimientoParams) (*model.Movimiento, error) {
	if !p.Cuenta.Valida() {
		return nil, ErrCuentasInvalidas
	}
	if !p.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	if p.Signo != 1 && p.Signo != -1 {
		return nil, ErrMontoInvalido.withDetail("signo de movimiento invalido")
	}
	return &model.Movimiento{
		Cuenta:         p.Cuenta,
		Tipo:           p.Tipo,
		Signo:          p.Signo,
		Monto:          p.Monto,
		Descripcion:    p.Descripcion,
		UsuarioID:      p.UsuarioID,
		ReferenciaTipo: p.ReferenciaTipo,
		ReferenciaID:   p.ReferenciaID,
		SesionCajaID:   p.SesionCajaID,
	}, nil
}

func (s *ledgerService) RegistrarManual(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) (*dto.MovimientoResponse, error) {
	cuenta := model.Cuenta(req.Cuenta)
	if !cuenta.Valida() {
		return nil, ErrCuentasInvalidas
	}
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	signo := 1
	tipo := model.MovIngreso
	if req.Tipo == "egreso" {
		signo = -1
		tipo = model.MovEgreso
	}

	var mov *model.Movimiento
	err := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		// Movements on the physical account run under the open session. The
		// lookup locks the session row so a concurrent close cannot leave
		// the posting tagged with an already-closed session.
		var sesionID *uuid.UUID
		if cuenta == model.CuentaFisica {
			sesion, err := s.cajaRepo.FindSesionAbiertaTx(tx)
			if err != nil {
				return ErrCajaNoAbierta
			}
			sesionID = &sesion.ID
		}
		if signo < 0 {
			saldo, err := s.movRepo.SaldoHastaTx(tx, cuenta, nil)
			if err != nil {
				return err
			}
			if saldo.LessThan(req.Monto) {
				return ErrSaldoInsuficiente
			}
		}
		var err error
		mov, err = buildMovimiento(MovimientoParams{
			Cuenta:       cuenta,
			Tipo:         tipo,
			Signo:        signo,
			Monto:        req.Monto,
			Descripcion:  req.Descripcion,
			UsuarioID:    &usuarioID,
			SesionCajaID: sesionID,
		})
		if err != nil {
			return err
		}
		return s.movRepo.CreateTx(tx, mov)
	})
	if err != nil {
		return nil, err
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

func (s *ledgerService) Saldo(ctx context.Context, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error) {
	if !cuenta.Valida() {
		return decimal.Zero, ErrCuentasInvalidas
	}
	return s.movRepo.SaldoHasta(ctx, cuenta, hasta)
}

func (s *ledgerService) Listar(ctx context.Context, req dto.ListarMovimientosRequest) (*dto.MovimientoListResponse, error) {
	filter := repository.MovimientoFilter{
		Tipo:  req.Tipo,
		Page:  req.Page,
		Limit: req.Limit,
	}
	if req.Cuenta != "" {
		cuenta := model.Cuenta(req.Cuenta)
		if !cuenta.Valida() {
			return nil, ErrCuentasInvalidas
		}
		filter.Cuenta = &cuenta
	}
	if req.Desde != "" {
		t, err := parseFecha(req.Desde)
		if err != nil {
			return nil, err
		}
		filter.Desde = &t
	}
	if req.Hasta != "" {
		t, err := parseFecha(req.Hasta)
		if err != nil {
			return nil, err
		}
		filter.Hasta = &t
	}

	movs, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.MovimientoListResponse{
		Data:  make([]dto.MovimientoResponse, len(movs)),
		Total: total,
		Page:  maxInt(filter.Page, 1),
		Limit: filter.Limit,
	}
	for i, m := range movs {
		resp.Data[i] = movimientoToResponse(&m)
	}
	return resp, nil
}

// parseFecha accepts full RFC3339 timestamps or bare dates.
func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("fecha invalida, use RFC3339 o YYYY-MM-DD")
	}
	return t, nil
}

func movimientoToResponse(m *model.Movimiento) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:          m.ID.String(),
		Cuenta:      string(m.Cuenta),
		Tipo:        m.Tipo,
		Signo:       m.Signo,
		Monto:       m.Monto,
		Descripcion: m.Descripcion,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
	resp.ReferenciaTipo = m.ReferenciaTipo
	if m.ReferenciaID != nil {
		id := m.ReferenciaID.String()
		resp.ReferenciaID = &id
	}
	if m.SesionCajaID != nil {
		id := m.SesionCajaID.String()
		resp.SesionCajaID = &id
	}
	return resp
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
