package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	pkgstripe "github.com/AlaHassouna/Waw-Tee/pkg/stripe"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// StripeIntentClient exposes the subset of Stripe payment intent operations
// the gateway needs.
type StripeIntentClient interface {
	Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeIntentWrapper struct{}

// NewStripeIntentClient wraps the initialized Stripe client so the gateway can be tested.
func NewStripeIntentClient(api *pkgstripe.Client) StripeIntentClient {
	if api == nil {
		return nil
	}
	return &stripeIntentWrapper{}
}

func (w *stripeIntentWrapper) Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}

func (w *stripeIntentWrapper) Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.Get(id, params)
}

// StripeGateway drives card payments through Stripe payment intents.
type StripeGateway struct {
	client StripeIntentClient
}

// NewStripeGateway builds the Stripe gateway.
func NewStripeGateway(client StripeIntentClient) (*StripeGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("stripe intent client required")
	}
	return &StripeGateway{client: client}, nil
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

func (g *StripeGateway) CreatePayment(ctx context.Context, params CreateParams) (*Result, error) {
	if params.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	intentParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(strings.ToLower(params.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.Description != "" {
		intentParams.Description = stripe.String(params.Description)
	}
	if params.OrderNumber != "" {
		intentParams.Metadata = map[string]string{
			"order_number": params.OrderNumber,
			"order_id":     fmt.Sprintf("%d", params.OrderID),
		}
	}

	intent, err := g.client.Create(ctx, intentParams)
	if err != nil {
		return nil, mapStripeError(err, "create payment intent")
	}
	return stripeResult(intent), nil
}

func (g *StripeGateway) RetrievePayment(ctx context.Context, providerRef string) (*Result, error) {
	if strings.TrimSpace(providerRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}
	intent, err := g.client.Retrieve(ctx, providerRef, nil)
	if err != nil {
		return nil, mapStripeError(err, "retrieve payment intent")
	}
	return stripeResult(intent), nil
}

// CapturePayment re-queries the intent. Stripe intents created with
// automatic capture settle on confirmation, so there is nothing to capture
// server-side.
func (g *StripeGateway) CapturePayment(ctx context.Context, providerRef string) (*Result, error) {
	return g.RetrievePayment(ctx, providerRef)
}

func stripeResult(intent *stripe.PaymentIntent) *Result {
	result := &Result{
		ProviderRef:  intent.ID,
		Status:       mapStripeStatus(intent.Status),
		AmountCents:  intent.Amount,
		Currency:     strings.ToUpper(string(intent.Currency)),
		ClientSecret: intent.ClientSecret,
		Details: types.JSONMap{
			"stripe_payment_intent_id": intent.ID,
			"status":                   string(intent.Status),
		},
	}
	if intent.PaymentMethod != nil {
		result.PaymentMethod = intent.PaymentMethod.ID
	}
	if intent.LastPaymentError != nil {
		result.FailureCode = string(intent.LastPaymentError.Code)
		result.FailureType = string(intent.LastPaymentError.Type)
		result.FailureMessage = intent.LastPaymentError.Msg
		result.DeclineCode = string(intent.LastPaymentError.DeclineCode)
		result.Details["last_payment_error"] = intent.LastPaymentError.Msg
	}
	return result
}

func mapStripeStatus(status stripe.PaymentIntentStatus) Status {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return StatusProcessing
	case stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation:
		return StatusRequiresAction
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return StatusFailed
	case stripe.PaymentIntentStatusCanceled:
		return StatusCanceled
	default:
		return StatusPending
	}
}

func mapStripeError(err error, op string) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return pkgerrors.Wrap(pkgerrors.CodeGatewayConnection, err, op)
	}
	switch {
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized || stripeErr.HTTPStatusCode == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayAuth, err, op)
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayRateLimit, err, op)
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest || stripeErr.Type == stripe.ErrorTypeCard:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayInvalid, err, op)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeGatewayError, err, op)
	}
}
