package repository

import (
	"context"
	"time"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoFilter defines filters for listing ledger movements.
type MovimientoFilter struct {
	Cuenta *model.Cuenta
	Tipo   string
	Desde  *time.Time
	Hasta  *time.Time
	Page   int
	Limit  int
}

// MovimientoRepository is the append-only ledger store. Movements are only
// ever inserted; there is no Update or Delete on purpose.
type MovimientoRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, m *model.Movimiento) error
	CreateTx(tx *gorm.DB, m *model.Movimiento) error
	List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error)
	ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.Movimiento, error)
	// SaldoHasta returns SUM(signo * monto) for the cuenta up to hasta
	// (inclusive); nil means "now".
	SaldoHasta(ctx context.Context, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error)
	SaldoHastaTx(tx *gorm.DB, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error)
	// SumDesde returns SUM(signo * monto) for the cuenta from desde (inclusive)
	// onward. Used to compute a session's expected closing balance.
	SumDesde(ctx context.Context, cuenta model.Cuenta, desde time.Time) (decimal.Decimal, error)
	SumDesdeTx(tx *gorm.DB, cuenta model.Cuenta, desde time.Time) (decimal.Decimal, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

func (r *movimientoRepo) Create(ctx context.Context, m *model.Movimiento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.Movimiento) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movimiento{})
	if filter.Cuenta != nil {
		q = q.Where("cuenta = ?", *filter.Cuenta)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.Desde != nil {
		q = q.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("created_at <= ?", *filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var movs []model.Movimiento
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&movs).Error
	return movs, total, err
}

func (r *movimientoRepo) ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.Movimiento, error) {
	var movs []model.Movimiento
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) SaldoHasta(ctx context.Context, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error) {
	return sumFirmado(r.db.WithContext(ctx), cuenta, nil, hasta)
}

func (r *movimientoRepo) SaldoHastaTx(tx *gorm.DB, cuenta model.Cuenta, hasta *time.Time) (decimal.Decimal, error) {
	return sumFirmado(tx, cuenta, nil, hasta)
}

func (r *movimientoRepo) SumDesde(ctx context.Context, cuenta model.Cuenta, desde time.Time) (decimal.Decimal, error) {
	return sumFirmado(r.db.WithContext(ctx), cuenta, &desde, nil)
}

func (r *movimientoRepo) SumDesdeTx(tx *gorm.DB, cuenta model.Cuenta, desde time.Time) (decimal.Decimal, error) {
	return sumFirmado(tx, cuenta, &desde, nil)
}

func sumFirmado(db *gorm.DB, cuenta model.Cuenta, desde, hasta *time.Time) (decimal.Decimal, error) {
	q := db.Model(&model.Movimiento{}).Where("cuenta = ?", cuenta)
	if desde != nil {
		q = q.Where("created_at >= ?", *desde)
	}
	if hasta != nil {
		q = q.Where("created_at <= ?", *hasta)
	}
	var result struct{ Total decimal.Decimal }
	err := q.Select("COALESCE(SUM(monto * signo), 0) AS total").Scan(&result).Error
	return result.Total, err
}
