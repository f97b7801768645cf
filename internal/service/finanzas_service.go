package service

import (
	"context"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/dto"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"
)

// FinanzasService derives the account summary from the ledger and the
// reserve table on every call. There is no cache: the numbers always match
// the latest committed movements.
type FinanzasService interface {
	Resumen(ctx context.Context) (*dto.ResumenCuentasResponse, error)
}

type finanzasService struct {
	movRepo     repository.MovimientoRepository
	reservaRepo repository.ReservaRepository
}

func NewFinanzasService(movRepo repository.MovimientoRepository, reservaRepo repository.ReservaRepository) FinanzasService {
	return &finanzasService{movRepo: movRepo, reservaRepo: reservaRepo}
}

func (s *finanzasService) Resumen(ctx context.Context) (*dto.ResumenCuentasResponse, error) {
	saldoFisica, err := s.movRepo.SaldoHasta(ctx, model.CuentaFisica, nil)
	if err != nil {
		return nil, err
	}
	saldoVirtual, err := s.movRepo.SaldoHasta(ctx, model.CuentaVirtual, nil)
	if err != nil {
		return nil, err
	}
	reservasFisica, err := s.reservaRepo.SumDisponible(ctx, model.CuentaFisica)
	if err != nil {
		return nil, err
	}
	reservasVirtual, err := s.reservaRepo.SumDisponible(ctx, model.CuentaVirtual)
	if err != nil {
		return nil, err
	}

	return &dto.ResumenCuentasResponse{
		SaldoFisica:     saldoFisica,
		SaldoVirtual:    saldoVirtual,
		ReservasFisica:  reservasFisica,
		ReservasVirtual: reservasVirtual,
		Total:           saldoFisica.Add(saldoVirtual).Add(reservasFisica).Add(reservasVirtual),
	}, nil
}
