package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferenciaService interface {
	// Transferir moves monto between the two accounts: two linked movements
	// sharing one referencia id, posted in a single transaction. The source
	// balance is always checked first.
	Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error)
}

type transferenciaService struct {
	movRepo  repository.MovimientoRepository
	cajaRepo repository.CajaRepository
}

func NewTransferenciaService(movRepo repository.MovimientoRepository, cajaRepo repository.CajaRepository) TransferenciaService {
	return &transferenciaService{movRepo: movRepo, cajaRepo: cajaRepo}
}

func (s *transferenciaService) Transferir(ctx context.Context, usuarioID uuid.UUID, req dto.TransferenciaRequest) (*dto.TransferenciaResponse, error) {
	origen := model.Cuenta(req.Origen)
	destino := model.Cuenta(req.Destino)
	if !origen.Valida() || !destino.Valida() || origen == destino {
		return nil, ErrCuentasInvalidas
	}
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	descripcion := req.Descripcion
	if descripcion == "" {
		descripcion = fmt.Sprintf("Transferencia %s a %s", origen, destino)
	}

	refID := uuid.New()
	refTipo := model.RefTransferencia

	err := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		// The physical session is attached when it touches the drawer.
		var sesionID *uuid.UUID
		if sesion, err := s.cajaRepo.FindSesionAbiertaTx(tx); err == nil {
			sesionID = &sesion.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		saldo, err := s.movRepo.SaldoHastaTx(tx, origen, nil)
		if err != nil {
			return err
		}
		if saldo.LessThan(req.Monto) {
			return ErrSaldoInsuficiente
		}

		egreso, err := buildMovimiento(MovimientoParams{
			Cuenta:         origen,
			Tipo:           model.MovTransferencia,
			Signo:          -1,
			Monto:          req.Monto,
			Descripcion:    descripcion,
			UsuarioID:      &usuarioID,
			ReferenciaTipo: &refTipo,
			ReferenciaID:   &refID,
			SesionCajaID:   sesionID,
		})
		if err != nil {
			return err
		}
		if err := s.movRepo.CreateTx(tx, egreso); err != nil {
			return err
		}

		ingreso, err := buildMovimiento(MovimientoParams{
			Cuenta:         destino,
			Tipo:           model.MovTransferencia,
			Signo:          1,
			Monto:          req.Monto,
			Descripcion:    descripcion,
			UsuarioID:      &usuarioID,
			ReferenciaTipo: &refTipo,
			ReferenciaID:   &refID,
			SesionCajaID:   sesionID,
		})
		if err != nil {
			return err
		}
		return s.movRepo.CreateTx(tx, ingreso)
	})
	if err != nil {
		return nil, err
	}

	return &dto.TransferenciaResponse{
		ReferenciaID: refID.String(),
		Origen:       req.Origen,
		Destino:      req.Destino,
		Monto:        req.Monto,
	}, nil
}
