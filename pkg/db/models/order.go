package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// Order is the checkout aggregate. Core fields are written once at creation;
// status, payment fields, tracking and notes are mutated afterwards by the
// payment confirmation flow and admin updates.
//
// Total and TotalAmount are a legacy pair and must stay byte-for-byte equal
// at rest: every write to one goes through SetTotal.
type Order struct {
	ID          uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber string  `gorm:"column:order_number;size:20;not null;uniqueIndex" json:"order_number"`
	UserID      *uint64 `gorm:"column:user_id;index" json:"user_id"`

	Status        enums.OrderStatus   `gorm:"column:status;size:20;not null;default:'pending'" json:"status"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;size:20;not null;default:'pending'" json:"payment_status"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;size:20;not null" json:"payment_method"`

	PaymentIntentID *string        `gorm:"column:payment_intent_id;size:255;index" json:"payment_intent_id"`
	PaymentDetails  *types.JSONMap `gorm:"column:payment_details;type:jsonb;serializer:json" json:"payment_details"`

	Currency     enums.Currency  `gorm:"column:currency;size:3;not null;default:'EUR'" json:"currency"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"column:shipping_cost;type:numeric(10,2);not null;default:0" json:"shipping_cost"`
	TaxAmount    decimal.Decimal `gorm:"column:tax_amount;type:numeric(10,2);not null;default:0" json:"tax_amount"`
	TotalAmount  decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null" json:"total"`

	FirstName string `gorm:"column:first_name;size:255;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:255;not null" json:"last_name"`
	Email     string `gorm:"column:email;size:255;not null;index" json:"email"`
	Phone     string `gorm:"column:phone;size:20;not null" json:"phone"`
	Street    string `gorm:"column:street;size:255;not null" json:"street"`
	City      string `gorm:"column:city;size:255;not null" json:"city"`
	State     string `gorm:"column:state;size:255;not null" json:"state"`
	ZipCode   string `gorm:"column:zip_code;size:20;not null" json:"zip_code"`
	Country   string `gorm:"column:country;size:2;not null" json:"country"`

	ShippingAddress *types.Address `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shipping_address"`
	BillingAddress  *types.Address `gorm:"column:billing_address;type:jsonb;serializer:json" json:"billing_address"`

	TrackingNumber *string `gorm:"column:tracking_number;size:255" json:"tracking_number"`
	Notes          *string `gorm:"column:notes" json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// SetTotal writes both halves of the legacy total pair.
func (o *Order) SetTotal(amount decimal.Decimal) {
	o.Total = amount
	o.TotalAmount = amount
}

// SyncTotals repairs the pair when exactly one side is set, preferring the
// populated side. Used before persisting payment confirmations on rows that
// predate the pairing.
func (o *Order) SyncTotals() {
	switch {
	case o.Total.IsZero() && !o.TotalAmount.IsZero():
		o.Total = o.TotalAmount
	case o.TotalAmount.IsZero() && !o.Total.IsZero():
		o.TotalAmount = o.Total
	}
}
