package payments

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/pagination"
)

// ErrorRepository persists and reviews payment error records.
type ErrorRepository interface {
	WithTx(tx *gorm.DB) ErrorRepository
	Create(ctx context.Context, record *models.PaymentError) error
	FindByID(ctx context.Context, id uint64) (*models.PaymentError, error)
	List(ctx context.Context, params pagination.Params, unresolvedOnly bool) (*ErrorList, error)
	Resolve(ctx context.Context, id uint64, resolvedBy string, now time.Time) error
}

type errorRepository struct {
	db *gorm.DB
}

// NewErrorRepository builds a payment error repository bound to the provided DB.
func NewErrorRepository(db *gorm.DB) ErrorRepository {
	return &errorRepository{db: db}
}

func (r *errorRepository) WithTx(tx *gorm.DB) ErrorRepository {
	if tx == nil {
		return r
	}
	return &errorRepository{db: tx}
}

func (r *errorRepository) Create(ctx context.Context, record *models.PaymentError) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *errorRepository) FindByID(ctx context.Context, id uint64) (*models.PaymentError, error) {
	var record models.PaymentError
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *errorRepository) List(ctx context.Context, params pagination.Params, unresolvedOnly bool) (*ErrorList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.PaymentError{})
	if unresolvedOnly {
		query = query.Where("resolved = ?", false)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(limit + 1)

	var rows []models.PaymentError
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &ErrorList{Items: rows, Cursor: next}, nil
}

func (r *errorRepository) Resolve(ctx context.Context, id uint64, resolvedBy string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentError{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"resolved":    true,
			"resolved_at": now,
			"resolved_by": resolvedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
