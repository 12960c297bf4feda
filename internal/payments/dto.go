package payments

import (
	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
)

// Outcome labels what the confirmation attempt resolved to.
type Outcome string

const (
	OutcomeSucceeded      Outcome = "succeeded"
	OutcomeAlreadyPaid    Outcome = "already_paid"
	OutcomeRequiresAction Outcome = "requires_action"
	OutcomeFailed         Outcome = "failed"
)

// CreateIntentInput opens a card payment for an existing order.
type CreateIntentInput struct {
	OrderID uint64 `json:"order_id" validate:"required"`
}

// IntentResult carries what the storefront needs to run the card flow.
type IntentResult struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// ConfirmInput reconciles an order against the provider's view of the
// payment. Exactly one of OrderID or OrderNumber must identify the order.
type ConfirmInput struct {
	OrderID         uint64 `json:"order_id,omitempty"`
	OrderNumber     string `json:"order_number,omitempty"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// ConfirmResult reports the reconciliation outcome. RequiresAction and
// Failed outcomes leave the order unchanged except for the failure marker.
type ConfirmResult struct {
	Outcome      Outcome       `json:"outcome"`
	Order        *models.Order `json:"order,omitempty"`
	ClientSecret string        `json:"client_secret,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// RedirectInput opens a redirect payment for an existing order.
type RedirectInput struct {
	OrderID   uint64 `json:"order_id" validate:"required"`
	ReturnURL string `json:"return_url,omitempty" validate:"omitempty,url"`
	CancelURL string `json:"cancel_url,omitempty" validate:"omitempty,url"`
}

// RedirectResult carries the approval link the buyer must visit.
type RedirectResult struct {
	ProviderRef string `json:"provider_ref"`
	ApproveURL  string `json:"approve_url"`
}

// CaptureInput settles an approved redirect payment.
type CaptureInput struct {
	OrderID     uint64 `json:"order_id,omitempty"`
	ProviderRef string `json:"provider_ref" validate:"required"`
}

// ResolveErrorInput marks a recorded payment error as handled.
type ResolveErrorInput struct {
	ResolvedBy string `json:"resolved_by" validate:"required,max=255"`
}

// ErrorList wraps payment errors and the cursor for the next page.
type ErrorList struct {
	Items  []models.PaymentError `json:"items"`
	Cursor string                `json:"cursor"`
}
