package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	// Save writes the full order row, applying JSON serialization on the
	// payment and address columns.
	Save(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint64) (*models.Order, error)
	// FindByIDForUpdate locks the row for the rest of the transaction on
	// dialects that support it.
	FindByIDForUpdate(ctx context.Context, id uint64) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*models.Order, error)
	FindByNumberAndEmail(ctx context.Context, number, email string) (*models.Order, error)
	FindByProviderRef(ctx context.Context, providerRef string) (*models.Order, error)
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	ListByUser(ctx context.Context, userID uint64, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error)
	UpdateFields(ctx context.Context, id uint64, updates map[string]any) error
	Delete(ctx context.Context, id uint64) error
}
