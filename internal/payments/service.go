package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlaHassouna/Waw-Tee/internal/orders"
	"github.com/AlaHassouna/Waw-Tee/internal/payments/gateway"
	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
	"github.com/AlaHassouna/Waw-Tee/pkg/metrics"
	"github.com/AlaHassouna/Waw-Tee/pkg/pagination"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service reconciles local order state against the payment providers.
type Service interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error)
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
	CreateRedirect(ctx context.Context, input RedirectInput) (*RedirectResult, error)
	CaptureRedirect(ctx context.Context, input CaptureInput) (*ConfirmResult, error)
	ListErrors(ctx context.Context, params pagination.Params, unresolvedOnly bool) (*ErrorList, error)
	ResolveError(ctx context.Context, id uint64, input ResolveErrorInput) error
}

// RedirectURLs are the defaults applied when a redirect request does not
// carry its own return and cancel links.
type RedirectURLs struct {
	ReturnURL string
	CancelURL string
}

type service struct {
	orders    orders.Repository
	errors    ErrorRepository
	tx        txRunner
	gateways  map[enums.PaymentMethod]gateway.Gateway
	redirects RedirectURLs
	metrics   *metrics.PaymentMetrics
	logg      *logger.Logger

	now func() time.Time
}

// NewService builds the payment service with one gateway per payment method.
func NewService(orderRepo orders.Repository, errorRepo ErrorRepository, tx txRunner, gateways map[enums.PaymentMethod]gateway.Gateway, redirects RedirectURLs, paymentMetrics *metrics.PaymentMetrics, logg *logger.Logger) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if errorRepo == nil {
		return nil, fmt.Errorf("payment error repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if len(gateways) == 0 {
		return nil, fmt.Errorf("at least one gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		orders:    orderRepo,
		errors:    errorRepo,
		tx:        tx,
		gateways:  gateways,
		redirects: redirects,
		metrics:   paymentMetrics,
		logg:      logg,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error) {
	order, err := s.loadOrder(ctx, input.OrderID, "")
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already paid")
	}

	gw, err := s.gatewayFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	result, err := s.callGateway(ctx, gw, "create", func() (*gateway.Result, error) {
		return gw.CreatePayment(ctx, gateway.CreateParams{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			AmountCents: toCents(order.Total),
			Currency:    order.Currency.String(),
			Description: "Order " + order.OrderNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	order.PaymentIntentID = &result.ProviderRef
	order.PaymentStatus = enums.PaymentStatusProcessing
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment intent id")
	}

	return &IntentResult{
		PaymentIntentID: result.ProviderRef,
		ClientSecret:    result.ClientSecret,
		AmountCents:     result.AmountCents,
		Currency:        result.Currency,
	}, nil
}

func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	if strings.TrimSpace(input.PaymentIntentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	order, err := s.loadOrder(ctx, input.OrderID, input.OrderNumber)
	if err != nil {
		return nil, err
	}

	if alreadyPaid(order, input.PaymentIntentID) {
		return &ConfirmResult{Outcome: OutcomeAlreadyPaid, Order: order}, nil
	}

	gw, err := s.gatewayFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	// The provider's answer is the ground truth; the submitted status never is.
	result, err := s.callGateway(ctx, gw, "retrieve", func() (*gateway.Result, error) {
		return gw.RetrievePayment(ctx, input.PaymentIntentID)
	})
	if err != nil {
		return nil, err
	}

	return s.applyResult(ctx, gw, order, result)
}

func (s *service) CreateRedirect(ctx context.Context, input RedirectInput) (*RedirectResult, error) {
	order, err := s.loadOrder(ctx, input.OrderID, "")
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order is already paid")
	}

	gw, err := s.gatewayFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	returnURL := input.ReturnURL
	if returnURL == "" {
		returnURL = s.redirects.ReturnURL
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = s.redirects.CancelURL
	}

	result, err := s.callGateway(ctx, gw, "create", func() (*gateway.Result, error) {
		return gw.CreatePayment(ctx, gateway.CreateParams{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			AmountCents: toCents(order.Total),
			Currency:    order.Currency.String(),
			Description: "Order " + order.OrderNumber,
			ReturnURL:   returnURL,
			CancelURL:   cancelURL,
		})
	})
	if err != nil {
		return nil, err
	}

	order.PaymentIntentID = &result.ProviderRef
	order.PaymentStatus = enums.PaymentStatusProcessing
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store provider reference")
	}

	return &RedirectResult{
		ProviderRef: result.ProviderRef,
		ApproveURL:  result.ApproveURL,
	}, nil
}

func (s *service) CaptureRedirect(ctx context.Context, input CaptureInput) (*ConfirmResult, error) {
	if strings.TrimSpace(input.ProviderRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider reference required")
	}

	var order *models.Order
	var err error
	if input.OrderID != 0 {
		order, err = s.loadOrder(ctx, input.OrderID, "")
	} else {
		order, err = s.orders.FindByProviderRef(ctx, input.ProviderRef)
		if err == gorm.ErrRecordNotFound {
			err = pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		} else if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
	}
	if err != nil {
		return nil, err
	}

	if alreadyPaid(order, input.ProviderRef) {
		return &ConfirmResult{Outcome: OutcomeAlreadyPaid, Order: order}, nil
	}

	gw, err := s.gatewayFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	result, err := s.callGateway(ctx, gw, "capture", func() (*gateway.Result, error) {
		return gw.CapturePayment(ctx, input.ProviderRef)
	})
	if err != nil {
		return nil, err
	}

	return s.applyResult(ctx, gw, order, result)
}

func (s *service) ListErrors(ctx context.Context, params pagination.Params, unresolvedOnly bool) (*ErrorList, error) {
	list, err := s.errors.List(ctx, params, unresolvedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment errors")
	}
	return list, nil
}

func (s *service) ResolveError(ctx context.Context, id uint64, input ResolveErrorInput) error {
	if id == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment error id required")
	}
	if strings.TrimSpace(input.ResolvedBy) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "resolved_by required")
	}
	err := s.errors.Resolve(ctx, id, input.ResolvedBy, s.now())
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment error not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve payment error")
	}
	return nil
}

// applyResult turns the provider's answer into local order state.
func (s *service) applyResult(ctx context.Context, gw gateway.Gateway, order *models.Order, result *gateway.Result) (*ConfirmResult, error) {
	switch {
	case result.Succeeded():
		updated, err := s.markPaid(ctx, order.ID, result)
		if err != nil {
			return nil, err
		}
		s.metrics.IncConfirmation(gw.Name(), string(OutcomeSucceeded))
		return &ConfirmResult{Outcome: OutcomeSucceeded, Order: updated}, nil

	case result.Status == gateway.StatusRequiresAction:
		s.metrics.IncConfirmation(gw.Name(), string(OutcomeRequiresAction))
		return &ConfirmResult{
			Outcome:      OutcomeRequiresAction,
			ClientSecret: result.ClientSecret,
			Message:      "payment requires additional confirmation",
		}, nil

	default:
		s.recordFailure(ctx, gw, order, result)
		message := result.FailureMessage
		if message == "" {
			message = "payment was not completed"
		}
		return &ConfirmResult{Outcome: OutcomeFailed, Message: message}, nil
	}
}

// markPaid locks the order row and writes the paid state exactly once.
func (s *service) markPaid(ctx context.Context, orderID uint64, result *gateway.Result) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}

		if alreadyPaid(order, result.ProviderRef) {
			updated = order
			return nil
		}

		details := types.JSONMap{}
		for k, v := range result.Details {
			details[k] = v
		}
		details["amount"] = fromCents(result.AmountCents)
		details["currency"] = result.Currency
		details["status"] = string(result.Status)
		details["confirmed_at"] = s.now().Format(time.RFC3339)
		if result.PaymentMethod != "" {
			details["payment_method"] = result.PaymentMethod
		}

		order.Status = enums.OrderStatusConfirmed
		order.PaymentStatus = enums.PaymentStatusPaid
		order.PaymentIntentID = &result.ProviderRef
		order.PaymentDetails = &details
		order.SyncTotals()

		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store paid order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// recordFailure marks the order failed and files a payment error row. Both
// writes are best effort; a broken audit trail must not mask the original
// payment failure.
func (s *service) recordFailure(ctx context.Context, gw gateway.Gateway, order *models.Order, result *gateway.Result) {
	logCtx := s.logg.WithOrderID(ctx, order.ID)

	errorCode := result.FailureCode
	if errorCode == "" {
		errorCode = "unknown"
	}
	errorMessage := result.FailureMessage
	if errorMessage == "" {
		errorMessage = "Unknown error"
	}

	if order.PaymentStatus != enums.PaymentStatusPaid {
		failureDetails := types.JSONMap{
			"status":        string(result.Status),
			"failed_at":     s.now().Format(time.RFC3339),
			"error_code":    errorCode,
			"error_message": errorMessage,
		}
		if err := s.orders.UpdateFields(ctx, order.ID, map[string]any{
			"payment_status":    enums.PaymentStatusFailed,
			"payment_intent_id": result.ProviderRef,
			"payment_details":   failureDetails,
		}); err != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "marking order failed did not stick")
		}
	}

	orderID := order.ID
	providerRef := result.ProviderRef
	amount := decimal.NewFromInt(result.AmountCents).Div(decimal.NewFromInt(100))
	currency := result.Currency
	if currency == "" {
		currency = order.Currency.String()
	}
	method := gw.Name()

	record := &models.PaymentError{
		OrderID:         &orderID,
		PaymentIntentID: &providerRef,
		ErrorCode:       errorCode,
		ErrorMessage:    errorMessage,
		Amount:          &amount,
		Currency:        &currency,
		PaymentMethod:   &method,
	}
	if result.FailureType != "" {
		errorType := result.FailureType
		record.ErrorType = &errorType
	}
	if result.DeclineCode != "" {
		declineCode := result.DeclineCode
		record.DeclineCode = &declineCode
	}
	if order.Email != "" {
		email := order.Email
		record.CustomerEmail = &email
	}
	if len(result.Details) > 0 {
		details := result.Details
		record.Details = &details
	}

	if err := s.errors.Create(ctx, record); err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "recording payment error failed")
	}

	s.metrics.IncFailure(method, errorCode)
}

func (s *service) loadOrder(ctx context.Context, id uint64, number string) (*models.Order, error) {
	var order *models.Order
	var err error
	switch {
	case id != 0:
		order, err = s.orders.FindByID(ctx, id)
	case strings.TrimSpace(number) != "":
		order, err = s.orders.FindByOrderNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id or order number required")
	}
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) gatewayFor(method enums.PaymentMethod) (gateway.Gateway, error) {
	gw, ok := s.gateways[method]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no gateway configured for %q", method))
	}
	return gw, nil
}

func (s *service) callGateway(ctx context.Context, gw gateway.Gateway, operation string, fn func() (*gateway.Result, error)) (*gateway.Result, error) {
	start := s.now()
	result, err := fn()
	s.metrics.ObserveGateway(gw.Name(), operation, s.now().Sub(start))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func alreadyPaid(order *models.Order, providerRef string) bool {
	return order.PaymentStatus == enums.PaymentStatusPaid &&
		order.PaymentIntentID != nil &&
		*order.PaymentIntentID == providerRef
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
