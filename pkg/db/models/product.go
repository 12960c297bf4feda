package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// Product is the catalog entry orders snapshot from. Only the fields the
// order flow reads are modelled here.
type Product struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"column:name;size:255;not null" json:"name"`
	Slug        string          `gorm:"column:slug;size:255;not null;uniqueIndex" json:"slug"`
	Description *string         `gorm:"column:description" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Currency    string          `gorm:"column:currency;size:3;not null;default:'EUR'" json:"currency"`

	Images *types.JSONMap `gorm:"column:images;type:jsonb;serializer:json" json:"images"`
	Sizes  *types.JSONMap `gorm:"column:sizes;type:jsonb;serializer:json" json:"sizes"`
	Colors *types.JSONMap `gorm:"column:colors;type:jsonb;serializer:json" json:"colors"`

	StockQuantity int  `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	SalesCount    int  `gorm:"column:sales_count;not null;default:0" json:"sales_count"`
	IsActive      bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Snapshot captures the catalog state embedded into an order item at
// checkout time.
func (p Product) Snapshot() types.JSONMap {
	snap := types.JSONMap{
		"id":       p.ID,
		"name":     p.Name,
		"slug":     p.Slug,
		"price":    p.Price.StringFixed(2),
		"currency": p.Currency,
	}
	if p.Description != nil {
		snap["description"] = *p.Description
	}
	if p.Images != nil {
		snap["images"] = *p.Images
	}
	return snap
}
