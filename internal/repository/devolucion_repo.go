package repository

import (
	"context"

	"github.com/AlesandroCasanova/hilos-y-coo-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DevolucionRepository interface {
	CreateTx(tx *gorm.DB, d *model.Devolucion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error)
	List(ctx context.Context, page, limit int) ([]model.Devolucion, int64, error)
}

type devolucionRepo struct{ db *gorm.DB }

func NewDevolucionRepository(db *gorm.DB) DevolucionRepository { return &devolucionRepo{db: db} }

func (r *devolucionRepo) CreateTx(tx *gorm.DB, d *model.Devolucion) error {
	return tx.Create(d).Error
}

func (r *devolucionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Devolucion, error) {
	var d model.Devolucion
	err := r.db.WithContext(ctx).Preload("Items").First(&d, id).Error
	return &d, err
}

func (r *devolucionRepo) List(ctx context.Context, page, limit int) ([]model.Devolucion, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Devolucion{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var devs []model.Devolucion
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&devs).Error
	return devs, total, err
}
