package repository

import (
	"context"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VentaRepository is the read side of the sales collaborator: the returns
// flow needs line items and the per-line returned counters.
type VentaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDTx locks the venta items FOR UPDATE so concurrent returns on
	// the same sale cannot both pass the over-return check.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	SumarDevueltoTx(tx *gorm.DB, itemID uuid.UUID, cantidad int) error
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Items").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.First(&v, id).Error; err != nil {
		return nil, err
	}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("venta_id = ?", id).
		Find(&v.Items).Error
	return &v, err
}

func (r *ventaRepo) SumarDevueltoTx(tx *gorm.DB, itemID uuid.UUID, cantidad int) error {
	return tx.Model(&model.VentaItem{}).
		Where("id = ?", itemID).
		Update("cantidad_devuelta", gorm.Expr("cantidad_devuelta + ?", cantidad)).Error
}
