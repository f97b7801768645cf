package repository

import (
	"context"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservaRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, res *model.Reserva) error
	CreateTx(tx *gorm.DB, res *model.Reserva) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error)
	// FindByIDTx locks the row FOR UPDATE so concurrent releases cannot
	// double-spend the same reserve balance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Reserva, error)
	UpdateTx(tx *gorm.DB, res *model.Reserva) error
	// ListActivasTx returns active reserves of the cuenta ordered oldest
	// first, all rows locked FOR UPDATE for the duration of a drain.
	ListActivasTx(tx *gorm.DB, cuenta model.Cuenta) ([]model.Reserva, error)
	List(ctx context.Context, cuenta *model.Cuenta) ([]model.Reserva, error)
	// SumDisponible returns SUM(monto - monto_liberado) over active reserves.
	SumDisponible(ctx context.Context, cuenta model.Cuenta) (decimal.Decimal, error)
}

type reservaRepo struct{ db *gorm.DB }

func NewReservaRepository(db *gorm.DB) ReservaRepository { return &reservaRepo{db: db} }

func (r *reservaRepo) DB() *gorm.DB { return r.db }

func (r *reservaRepo) Create(ctx context.Context, res *model.Reserva) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *reservaRepo) CreateTx(tx *gorm.DB, res *model.Reserva) error {
	return tx.Create(res).Error
}

func (r *reservaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reserva, error) {
	var res model.Reserva
	err := r.db.WithContext(ctx).First(&res, id).Error
	return &res, err
}

func (r *reservaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Reserva, error) {
	var res model.Reserva
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&res, id).Error
	return &res, err
}

func (r *reservaRepo) UpdateTx(tx *gorm.DB, res *model.Reserva) error {
	return tx.Save(res).Error
}

func (r *reservaRepo) ListActivasTx(tx *gorm.DB, cuenta model.Cuenta) ([]model.Reserva, error) {
	var reservas []model.Reserva
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cuenta = ? AND monto_liberado < monto", cuenta).
		Order("created_at ASC").
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) List(ctx context.Context, cuenta *model.Cuenta) ([]model.Reserva, error) {
	q := r.db.WithContext(ctx).Model(&model.Reserva{})
	if cuenta != nil {
		q = q.Where("cuenta = ?", *cuenta)
	}
	var reservas []model.Reserva
	err := q.Order("created_at DESC").Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) SumDisponible(ctx context.Context, cuenta model.Cuenta) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.Reserva{}).
		Where("cuenta = ? AND monto_liberado < monto", cuenta).
		Select("COALESCE(SUM(monto - monto_liberado), 0) AS total").
		Scan(&result).Error
	return result.Total, err
}
