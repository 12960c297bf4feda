package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// OrderItem is a purchased line. ProductSnapshot freezes the product as it
// looked at checkout so later catalog edits never change what the order says
// was sold.
type OrderItem struct {
	ID        uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   uint64  `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID *uint64 `gorm:"column:product_id;index" json:"product_id"`

	ProductName     string          `gorm:"column:product_name;size:255;not null" json:"product_name"`
	Quantity        int             `gorm:"column:quantity;not null" json:"quantity"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Size            *string         `gorm:"column:size;size:20" json:"size"`
	Color           *types.JSONMap  `gorm:"column:color;type:jsonb;serializer:json" json:"color"`
	Variant         string          `gorm:"column:variant;size:100;not null" json:"variant"`
	Customization   *types.JSONMap  `gorm:"column:customization;type:jsonb;serializer:json" json:"customization"`
	ProductSnapshot *types.JSONMap  `gorm:"column:product_snapshot;type:jsonb;serializer:json" json:"product_snapshot"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// LineTotal is Price times Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
