package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	"github.com/AlaHassouna/Waw-Tee/pkg/paypal"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// PayPalClient exposes the PayPal order operations the gateway needs.
type PayPalClient interface {
	CreateOrder(ctx context.Context, req paypal.CreateOrderRequest) (*paypal.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error)
}

// PayPalGateway drives redirect payments through the PayPal Orders API.
type PayPalGateway struct {
	client PayPalClient
}

// NewPayPalGateway builds the PayPal gateway.
func NewPayPalGateway(client PayPalClient) (*PayPalGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("paypal client required")
	}
	return &PayPalGateway{client: client}, nil
}

func (g *PayPalGateway) Name() string {
	return "paypal"
}

func (g *PayPalGateway) CreatePayment(ctx context.Context, params CreateParams) (*Result, error) {
	if params.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	order, err := g.client.CreateOrder(ctx, paypal.CreateOrderRequest{
		PurchaseUnits: []paypal.PurchaseUnit{{
			ReferenceID: params.OrderNumber,
			Amount:      centsToAmount(params.AmountCents),
			Currency:    strings.ToUpper(params.Currency),
			Description: params.Description,
		}},
		ReturnURL: params.ReturnURL,
		CancelURL: params.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		ProviderRef: order.ID,
		Status:      mapPayPalStatus(order.Status),
		AmountCents: params.AmountCents,
		Currency:    strings.ToUpper(params.Currency),
		ApproveURL:  order.ApproveURL,
		Details: types.JSONMap{
			"paypal_order_id": order.ID,
			"status":          order.Status,
		},
	}, nil
}

func (g *PayPalGateway) RetrievePayment(ctx context.Context, providerRef string) (*Result, error) {
	order, err := g.client.GetOrder(ctx, providerRef)
	if err != nil {
		return nil, err
	}
	return &Result{
		ProviderRef: order.ID,
		Status:      mapPayPalStatus(order.Status),
		Details: types.JSONMap{
			"paypal_order_id": order.ID,
			"status":          order.Status,
		},
	}, nil
}

func (g *PayPalGateway) CapturePayment(ctx context.Context, providerRef string) (*Result, error) {
	capture, err := g.client.CaptureOrder(ctx, providerRef)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ProviderRef:   capture.OrderID,
		Status:        mapPayPalStatus(capture.Status),
		Currency:      strings.ToUpper(capture.Currency),
		PaymentMethod: "paypal",
		Details: types.JSONMap{
			"paypal_order_id": capture.OrderID,
			"capture_id":      capture.CaptureID,
			"status":          capture.Status,
		},
	}
	if capture.PayerEmail != "" {
		result.Details["payer_email"] = capture.PayerEmail
	}
	if capture.Amount != "" {
		result.AmountCents = amountToCents(capture.Amount)
	}
	return result, nil
}

func mapPayPalStatus(status string) Status {
	switch strings.ToUpper(status) {
	case "COMPLETED":
		return StatusSucceeded
	case "APPROVED", "PAYER_ACTION_REQUIRED":
		return StatusRequiresAction
	case "CREATED", "SAVED":
		return StatusPending
	case "VOIDED":
		return StatusCanceled
	default:
		return StatusFailed
	}
}

func centsToAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func amountToCents(amount string) int64 {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}
