package service

import (
	"context"
	"sort"
	"time"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"
	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. DB() returns nil so runTx calls the closure
// directly instead of opening a real transaction.

// ── MovimientoRepository ──────────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	movimientos []model.Movimiento
}

func newFakeMovimientoRepo() *fakeMovimientoRepo { return &fakeMovimientoRepo{} }

func (r *fakeMovimientoRepo) DB() *gorm.DB { return nil }

func (r *fakeMovimientoRepo) Create(_ context.Context, m *model.Movimiento) error {
	return r.CreateTx(nil, m)
}

func (r *fakeMovimientoRepo) CreateTx(_ *gorm.DB, m *model.Movimiento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovimientoRepo) List(_ context.Context, filter repository.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var out []model.Movimiento
	for _, m := range r.movimientos {
		if filter.Cuenta != nil && m.Cuenta != *filter.Cuenta {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *fakeMovimientoRepo) ListBySesion(_ context.Context, sesionID uuid.UUID) ([]model.Movimiento, error) {
	var out []model.Movimiento
	for _, m := range r.movimientos {
		if m.SesionCajaID != nil && *m.SesionCajaID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovimientoRepo) SaldoHasta(_ context.Context, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error) {
	return r.SaldoHastaTx(nil, cuenta, hasta)
}

func (r *fakeMovimientoRepo) SaldoHastaTx(_ *gorm.DB, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movimientos {
		if m.Cuenta != cuenta {
			continue
		}
		if hasta != nil && m.CreatedAt.After(*hasta) {
			continue
		}
		total = total.Add(m.MontoFirmado())
	}
	return total, nil
}

func (r *fakeMovimientoRepo) SumDesde(_ context.Context, cuenta model.Cuenta, desde time.Time) (decimal.Decimal, error) {
	return r.SumDesdeTx(nil, cuenta, desde)
}

func (r *fakeMovimientoRepo) SumDesdeTx(_ *gorm.DB, cuenta model.Cuenta, desde time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movimientos {
		if m.Cuenta != cuenta || m.CreatedAt.Before(desde) {
			continue
		}
		total = total.Add(m.MontoFirmado())
	}
	return total, nil
}

var _ repository.MovimientoRepository = (*fakeMovimientoRepo)(nil)

// ── ReservaRepository ─────────────────────────────────────────────────────────

type fakeReservaRepo struct {
	reservas []*model.Reserva
}

func newFakeReservaRepo() *fakeReservaRepo { return &fakeReservaRepo{} }

func (r *fakeReservaRepo) DB() *gorm.DB { return nil }

func (r *fakeReservaRepo) Create(_ context.Context, res *model.Reserva) error {
	return r.CreateTx(nil, res)
}

func (r *fakeReservaRepo) CreateTx(_ *gorm.DB, res *model.Reserva) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	r.reservas = append(r.reservas, res)
	return nil
}

func (r *fakeReservaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reserva, error) {
	return r.FindByIDTx(nil, id)
}

func (r *fakeReservaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Reserva, error) {
	for _, res := range r.reservas {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReservaRepo) UpdateTx(_ *gorm.DB, res *model.Reserva) error {
	for i, existing := range r.reservas {
		if existing.ID == res.ID {
			r.reservas[i] = res
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeReservaRepo) ListActivasTx(_ *gorm.DB, cuenta model.Cuenta) ([]model.Reserva, error) {
	var out []model.Reserva
	for _, res := range r.reservas {
		if res.Cuenta == cuenta && res.Activa() {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeReservaRepo) List(_ context.Context, cuenta *model.Cuenta) ([]model.Reserva, error) {
	var out []model.Reserva
	for _, res := range r.reservas {
		if cuenta != nil && res.Cuenta != *cuenta {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (r *fakeReservaRepo) SumDisponible(_ context.Context, cuenta model.Cuenta) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, res := range r.reservas {
		if res.Cuenta == cuenta && res.Activa() {
			total = total.Add(res.Disponible())
		}
	}
	return total, nil
}

var _ repository.ReservaRepository = (*fakeReservaRepo)(nil)

// ── CajaRepository ────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones map[uuid.UUID]*model.SesionCaja
	// runs once at the next transactional lookup, so tests can interleave
	// a concurrent close with a posting in flight
	abiertaTxHook func()
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) DB() *gorm.DB { return nil }

func (r *fakeCajaRepo) CreateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	// The partial unique index on estado='abierta'.
	if s.Estado == "abierta" {
		for _, existing := range r.sesiones {
			if existing.Estado == "abierta" {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context) (*model.SesionCaja, error) {
	return r.FindSesionAbiertaTx(nil)
}

func (r *fakeCajaRepo) FindSesionAbiertaTx(_ *gorm.DB) (*model.SesionCaja, error) {
	if hook := r.abiertaTxHook; hook != nil {
		r.abiertaTxHook = nil
		hook()
	}
	for _, s := range r.sesiones {
		if s.Estado == "abierta" {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeCajaRepo) FindUltimaCerradaTx(_ *gorm.DB) (*model.SesionCaja, error) {
	var ultima *model.SesionCaja
	for _, s := range r.sesiones {
		if s.Estado != "cerrada" || s.ClosedAt == nil {
			continue
		}
		if ultima == nil || s.ClosedAt.After(*ultima.ClosedAt) {
			ultima = s
		}
	}
	if ultima == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return ultima, nil
}

func (r *fakeCajaRepo) UpdateSesionTx(_ *gorm.DB, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) ListCerradas(_ context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if s.Estado == "cerrada" {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ClosedAt != nil && out[j].ClosedAt != nil && out[i].ClosedAt.After(*out[j].ClosedAt)
	})
	return out, int64(len(out)), nil
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

// ── Returns-flow collaborators ────────────────────────────────────────────────

type fakeVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	return r.FindByIDTx(nil, id)
}

func (r *fakeVentaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeVentaRepo) SumarDevueltoTx(_ *gorm.DB, itemID uuid.UUID, cantidad int) error {
	for _, v := range r.ventas {
		for i := range v.Items {
			if v.Items[i].ID == itemID {
				v.Items[i].CantidadDevuelta += cantidad
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.VentaRepository = (*fakeVentaRepo)(nil)

type fakeDevolucionRepo struct {
	devoluciones []*model.Devolucion
}

func (r *fakeDevolucionRepo) CreateTx(_ *gorm.DB, d *model.Devolucion) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	r.devoluciones = append(r.devoluciones, d)
	return nil
}

func (r *fakeDevolucionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Devolucion, error) {
	for _, d := range r.devoluciones {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDevolucionRepo) List(_ context.Context, _, _ int) ([]model.Devolucion, int64, error) {
	out := make([]model.Devolucion, len(r.devoluciones))
	for i, d := range r.devoluciones {
		out[i] = *d
	}
	return out, int64(len(out)), nil
}

var _ repository.DevolucionRepository = (*fakeDevolucionRepo)(nil)

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.FindByIDTx(nil, id)
}

func (r *fakeProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakeProductoRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual += delta
	return nil
}

var _ repository.ProductoRepository = (*fakeProductoRepo)(nil)

type fakeMovimientoStockRepo struct {
	movimientos []model.MovimientoStock
}

func (r *fakeMovimientoStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovimientoStockRepo) List(_ context.Context, _ repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoStockRepository = (*fakeMovimientoStockRepo)(nil)
