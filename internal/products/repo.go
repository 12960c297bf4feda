package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
)

// Repository exposes the catalog reads and counters the order flow needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByIDs(ctx context.Context, ids []uint64) ([]models.Product, error)
	IncrementSalesCount(ctx context.Context, id uint64, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByIDs(ctx context.Context, ids []uint64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) IncrementSalesCount(ctx context.Context, id uint64, qty int) error {
	if qty <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("sales_count", gorm.Expr("sales_count + ?", qty)).Error
}
