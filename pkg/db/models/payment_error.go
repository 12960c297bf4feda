package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// PaymentError is a durable record of a failed or anomalous payment attempt.
// Rows are written best-effort from the confirmation flow and reviewed by
// admins. Resolved marks a row as handled without deleting the evidence.
type PaymentError struct {
	ID      uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID *uint64 `gorm:"column:order_id;index" json:"order_id"`

	PaymentIntentID *string          `gorm:"column:payment_intent_id;size:255;index" json:"payment_intent_id"`
	ErrorCode       string           `gorm:"column:error_code;size:100;not null;default:'unknown'" json:"error_code"`
	ErrorType       *string          `gorm:"column:error_type;size:100" json:"error_type"`
	ErrorMessage    string           `gorm:"column:error_message;not null;default:'Unknown error'" json:"error_message"`
	DeclineCode     *string          `gorm:"column:decline_code;size:100" json:"decline_code"`
	Amount          *decimal.Decimal `gorm:"column:amount;type:numeric(10,2)" json:"amount"`
	Currency        *string          `gorm:"column:currency;size:3" json:"currency"`
	PaymentMethod   *string          `gorm:"column:payment_method;size:50" json:"payment_method"`
	CustomerEmail   *string          `gorm:"column:customer_email;size:255" json:"customer_email"`

	Details *types.JSONMap `gorm:"column:details;type:jsonb;serializer:json" json:"details"`

	Resolved   bool       `gorm:"column:resolved;not null;default:false" json:"resolved"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at"`
	ResolvedBy *string    `gorm:"column:resolved_by;size:255" json:"resolved_by"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
