package gateway

import (
	"context"

	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

// Status is the normalized state of a payment at the provider, independent
// of any local order state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusRequiresAction Status = "requires_action"
	StatusSucceeded      Status = "succeeded"
	StatusCanceled       Status = "canceled"
	StatusFailed         Status = "failed"
)

// CreateParams describes the payment to open at the provider.
type CreateParams struct {
	OrderID     uint64
	OrderNumber string
	AmountCents int64
	Currency    string
	Description string
	// Redirect URLs are only meaningful for redirect-based providers.
	ReturnURL string
	CancelURL string
}

// Result is the provider-neutral view of a payment returned by every
// gateway call. The reconciliation flow treats it as ground truth.
type Result struct {
	ProviderRef    string
	Status         Status
	AmountCents    int64
	Currency       string
	PaymentMethod  string
	ClientSecret   string
	ApproveURL     string
	FailureCode    string
	FailureType    string
	FailureMessage string
	DeclineCode    string
	Details        types.JSONMap
}

// Gateway abstracts a payment provider behind the three calls the
// reconciliation flow needs.
type Gateway interface {
	Name() string
	CreatePayment(ctx context.Context, params CreateParams) (*Result, error)
	RetrievePayment(ctx context.Context, providerRef string) (*Result, error)
	CapturePayment(ctx context.Context, providerRef string) (*Result, error)
}

// Succeeded reports whether the provider considers the payment final and paid.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}
