package orders

import (
	"github.com/shopspring/decimal"

	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// ItemInput is a single line submitted at checkout. Price is the unit price
// the storefront displayed; the catalog copy is kept in the snapshot for
// later audits.
type ItemInput struct {
	ProductID     uint64          `json:"product_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,gt=0"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	Variant       string          `json:"variant" validate:"required,max=100"`
	Size          *string         `json:"size,omitempty" validate:"omitempty,max=20"`
	Color         *types.JSONMap  `json:"color,omitempty" validate:"omitempty"`
	Customization *types.JSONMap  `json:"customization,omitempty" validate:"omitempty"`
}

// CreateInput captures a checkout submission.
type CreateInput struct {
	UserID *uint64

	Items []ItemInput `json:"items" validate:"required,min=1,dive"`

	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=255"`
	State     string `json:"state" validate:"required,max=255"`
	ZipCode   string `json:"zip_code" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,len=2"`

	ShippingAddress *types.Address `json:"shipping_address,omitempty" validate:"omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty" validate:"omitempty"`

	PaymentMethod string           `json:"payment_method" validate:"required,oneof=stripe paypal"`
	Currency      string           `json:"currency,omitempty" validate:"omitempty,len=3"`
	ShippingCost  decimal.Decimal  `json:"shipping_cost,omitempty"`
	TaxAmount     decimal.Decimal  `json:"tax_amount,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Notes         *string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// AdminUpdateInput carries the fields admins may change on an order.
type AdminUpdateInput struct {
	Status         *string `json:"status,omitempty" validate:"omitempty"`
	PaymentStatus  *string `json:"payment_status,omitempty" validate:"omitempty"`
	TrackingNumber *string `json:"tracking_number,omitempty" validate:"omitempty,max=255"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// AdminFilters narrows the admin order listing.
type AdminFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Email         string
}

// OrderList wraps returned orders and the cursor for the next page.
type OrderList struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor"`
}
