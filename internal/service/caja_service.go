package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/config"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CajaService interface {
	// Abrir opens the physical session. The opening amount carries forward
	// from the last closed session's declared amount (zero if none).
	Abrir(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error)
	// AbrirSiNoHay is the login hook: opens a session only when none is
	// open. A concurrent open losing the race is not an error here.
	AbrirSiNoHay(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error)
	// Cerrar performs the arqueo: compares expected vs declared, holds the
	// surplus as an automatic reserve or posts an upward adjustment for the
	// shortfall, then closes the session. One transaction.
	Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	Estado(ctx context.Context) (*dto.EstadoCajaResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.SesionCajaResponse, int64, error)
}

type cajaService struct {
	cajaRepo   repository.CajaRepository
	movRepo    repository.MovimientoRepository
	reservas   ReservaService
	cfg        *config.Config
	dispatcher *worker.Dispatcher
}

func NewCajaService(
	cajaRepo repository.CajaRepository,
	movRepo repository.MovimientoRepository,
	reservas ReservaService,
	cfg *config.Config,
	dispatcher *worker.Dispatcher,
) CajaService {
	return &cajaService{
		cajaRepo:   cajaRepo,
		movRepo:    movRepo,
		reservas:   reservas,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error) {
	var sesion *model.SesionCaja
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		var err error
		sesion, err = s.abrirEnTx(tx, usuarioID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := sesionToResponse(sesion)
	return &resp, nil
}

// abrirEnTx re-checks the one-open-session rule inside the transaction just
// before inserting. Racing opens either see the locked row here or trip the
// partial unique index on estado='abierta'; both surface as ErrCajaYaAbierta.
func (s *cajaService) abrirEnTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.SesionCaja, error) {
	if _, err := s.cajaRepo.FindSesionAbiertaTx(tx); err == nil {
		return nil, ErrCajaYaAbierta
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	montoInicial := decimal.Zero
	if ultima, err := s.cajaRepo.FindUltimaCerradaTx(tx); err == nil && ultima.MontoDeclarado != nil {
		montoInicial = *ultima.MontoDeclarado
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sesion := &model.SesionCaja{
		MontoInicial:      montoInicial,
		AperturaUsuarioID: usuarioID,
		Estado:            "abierta",
		OpenedAt:          time.Now(),
	}
	if err := s.cajaRepo.CreateSesionTx(tx, sesion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCajaYaAbierta
		}
		return nil, err
	}
	return sesion, nil
}

func (s *cajaService) AbrirSiNoHay(ctx context.Context, usuarioID uuid.UUID) (*dto.SesionCajaResponse, error) {
	if sesion, err := s.cajaRepo.FindSesionAbierta(ctx); err == nil {
		resp := sesionToResponse(sesion)
		return &resp, nil
	}
	resp, err := s.Abrir(ctx, usuarioID)
	if errors.Is(err, ErrCajaYaAbierta) {
		// Lost the race to another login; the session exists, which is all
		// the caller needs.
		sesion, ferr := s.cajaRepo.FindSesionAbierta(ctx)
		if ferr != nil {
			return nil, ferr
		}
		r := sesionToResponse(sesion)
		return &r, nil
	}
	return resp, err
}

// ── Cerrar ────────────────────────────────────────────────────────────────────

func (s *cajaService) Cerrar(ctx context.Context, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	if req.MontoDeclarado.IsNegative() {
		return nil, ErrMontoInvalido.withDetail("el monto declarado no puede ser negativo")
	}

	var resp *dto.CierreCajaResponse
	err := runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		sesion, err := s.cajaRepo.FindSesionAbiertaTx(tx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCajaNoAbierta
			}
			return err
		}

		movSum, err := s.movRepo.SumDesdeTx(tx, model.CuentaFisica, sesion.OpenedAt)
		if err != nil {
			return err
		}
		esperado := sesion.MontoInicial.Add(movSum)
		declarado := req.MontoDeclarado

		reservaAuto := decimal.Zero
		ajuste := decimal.Zero
		refSesion := model.RefSesion

		switch esperado.Cmp(declarado) {
		case 1: // surplus counted short: hold the difference as a reserve
			reservaAuto = esperado.Sub(declarado)
			if _, err := s.reservas.CrearEnTx(tx, model.CuentaFisica, reservaAuto,
				"Reserva automatica por cierre de caja", &usuarioID, &sesion.ID); err != nil {
				return err
			}
		case -1: // declared more than expected
			ajuste = declarado.Sub(esperado)
			if !s.cfg.CierreAjusteFaltante {
				return ErrDeclaradoExcede
			}
			mov, err := buildMovimiento(MovimientoParams{
				Cuenta:         model.CuentaFisica,
				Tipo:           model.MovAjuste,
				Signo:          1,
				Monto:          ajuste,
				Descripcion:    "Ajuste por cierre de caja",
				UsuarioID:      &usuarioID,
				ReferenciaTipo: &refSesion,
				ReferenciaID:   &sesion.ID,
				SesionCajaID:   &sesion.ID,
			})
			if err != nil {
				return err
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		now := time.Now()
		sesion.Estado = "cerrada"
		sesion.ClosedAt = &now
		sesion.MontoEsperado = &esperado
		sesion.MontoDeclarado = &declarado
		sesion.CierreUsuarioID = &usuarioID
		if err := s.cajaRepo.UpdateSesionTx(tx, sesion); err != nil {
			return err
		}

		resp = &dto.CierreCajaResponse{
			SesionCajaID:      sesion.ID.String(),
			Esperado:          esperado,
			Declarado:         declarado,
			ReservaAutomatica: reservaAuto,
			Ajuste:            ajuste,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Async arqueo report — best effort, never affects the close.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCierreReporte(ctx, map[string]interface{}{
			"sesion_id": resp.SesionCajaID,
		}); err != nil {
			log.Warn().Err(err).Str("sesion_id", resp.SesionCajaID).Msg("no se pudo encolar el reporte de cierre")
		}
	}
	return resp, nil
}

// ── Estado / Historial ────────────────────────────────────────────────────────

func (s *cajaService) Estado(ctx context.Context) (*dto.EstadoCajaResponse, error) {
	saldoFisica, err := s.movRepo.SaldoHasta(ctx, model.CuentaFisica, nil)
	if err != nil {
		return nil, err
	}
	saldoVirtual, err := s.movRepo.SaldoHasta(ctx, model.CuentaVirtual, nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.EstadoCajaResponse{
		SaldoFisica:  saldoFisica,
		SaldoVirtual: saldoVirtual,
	}
	sesion, err := s.cajaRepo.FindSesionAbierta(ctx)
	if err == nil {
		resp.Abierta = true
		sr := sesionToResponse(sesion)
		resp.Sesion = &sr
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return resp, nil
}

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]dto.SesionCajaResponse, int64, error) {
	sesiones, total, err := s.cajaRepo.ListCerradas(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.SesionCajaResponse, len(sesiones))
	for i := range sesiones {
		resp[i] = sesionToResponse(&sesiones[i])
	}
	return resp, total, nil
}

func sesionToResponse(s *model.SesionCaja) dto.SesionCajaResponse {
	resp := dto.SesionCajaResponse{
		ID:             s.ID.String(),
		MontoInicial:   s.MontoInicial,
		MontoEsperado:  s.MontoEsperado,
		MontoDeclarado: s.MontoDeclarado,
		Estado:         s.Estado,
		OpenedAt:       s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.UTC().Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
