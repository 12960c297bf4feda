package orders

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlaHassouna/Waw-Tee/internal/products"
	"github.com/AlaHassouna/Waw-Tee/pkg/db"
	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
	"github.com/AlaHassouna/Waw-Tee/pkg/metrics"
	"github.com/AlaHassouna/Waw-Tee/pkg/pagination"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

const (
	orderNumberPrefix   = "ORD-"
	orderNumberLength   = 8
	orderNumberCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	orderNumberAttempts = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Mailer sends customer-facing order emails. Failures are logged, never
// surfaced to the buyer.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendOrderStatusUpdate(ctx context.Context, order *models.Order, previous enums.OrderStatus) error
	SendTrackingUpdate(ctx context.Context, order *models.Order) error
}

// Service defines order operations for checkout, tracking and admin.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Get(ctx context.Context, id uint64) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	Track(ctx context.Context, number string) (*models.Order, error)
	TrackGuest(ctx context.Context, number, email string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint64, params pagination.Params) (*OrderList, error)
	AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error)
	AdminUpdate(ctx context.Context, id uint64, input AdminUpdateInput) (*models.Order, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo     Repository
	products products.Repository
	tx       txRunner
	mailer   Mailer
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger

	generateNumber func() (string, error)
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, productRepo products.Repository, tx txRunner, mailer Mailer, paymentMetrics *metrics.PaymentMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:           repo,
		products:       productRepo,
		tx:             tx,
		mailer:         mailer,
		metrics:        paymentMetrics,
		logg:           logg,
		generateNumber: randomOrderNumber,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	currency := enums.CurrencyEUR
	if input.Currency != "" {
		currency, err = enums.ParseCurrency(input.Currency)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
		}
	}

	productIDs := make([]uint64, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
		productIDs = append(productIDs, item.ProductID)
	}

	catalog, err := s.products.FindActiveByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uint64]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	for _, item := range input.Items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %d not found", item.ProductID))
		}
	}

	// Line prices come from the storefront submission. The catalog price at
	// the time of checkout is preserved in each item snapshot.
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product := byID[item.ProductID]
		snapshot := product.Snapshot()
		productID := item.ProductID
		items = append(items, models.OrderItem{
			ProductID:       &productID,
			ProductName:     product.Name,
			Quantity:        item.Quantity,
			Price:           item.Price,
			Variant:         item.Variant,
			Size:            item.Size,
			Color:           item.Color,
			Customization:   item.Customization,
			ProductSnapshot: &snapshot,
		})
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	total := subtotal.Add(input.ShippingCost).Add(input.TaxAmount)
	if input.TotalAmount != nil && !input.TotalAmount.Equal(total) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_amount does not match the order lines").
			WithDetails(map[string]any{"expected": total.StringFixed(2), "submitted": input.TotalAmount.StringFixed(2)})
	}

	order := &models.Order{
		UserID:          input.UserID,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		PaymentMethod:   method,
		Currency:        currency,
		Subtotal:        subtotal,
		ShippingCost:    input.ShippingCost,
		TaxAmount:       input.TaxAmount,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           input.Phone,
		Street:          input.Street,
		City:            input.City,
		State:           input.State,
		ZipCode:         input.ZipCode,
		Country:         strings.ToUpper(input.Country),
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
		Items:           items,
	}
	order.SetTotal(total)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		// A failed INSERT aborts the surrounding transaction on postgres, so
		// collisions are detected with a read before the one real insert.
		order.OrderNumber = ""
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			number, genErr := s.generateNumber()
			if genErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, genErr, "generate order number")
			}
			exists, exErr := repo.OrderNumberExists(ctx, number)
			if exErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, exErr, "check order number")
			}
			if exists {
				continue
			}
			order.OrderNumber = number
			break
		}
		if order.OrderNumber == "" {
			return pkgerrors.New(pkgerrors.CodeDependency, "could not allocate a unique order number")
		}

		if _, createErr := repo.Create(ctx, order); createErr != nil {
			if db.IsUniqueViolation(createErr, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, createErr, "order number taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create order")
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if incErr := productRepo.IncrementSalesCount(ctx, *item.ProductID, item.Quantity); incErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, incErr, "increment sales count")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderCreated(method.String())

	if s.mailer != nil {
		if mailErr := s.mailer.SendOrderConfirmation(ctx, order); mailErr != nil {
			logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
			logCtx = s.logg.WithField(logCtx, "error", mailErr.Error())
			s.logg.Warn(logCtx, "order confirmation email failed")
		}
	}

	return order, nil
}

func (s *service) Get(ctx context.Context, id uint64) (*models.Order, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, orderLookupError(err)
	}
	return order, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	number = normalizeOrderNumber(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, number)
	if err != nil {
		return nil, orderLookupError(err)
	}
	return order, nil
}

func (s *service) Track(ctx context.Context, number string) (*models.Order, error) {
	return s.GetByNumber(ctx, number)
}

func (s *service) TrackGuest(ctx context.Context, number, email string) (*models.Order, error) {
	number = normalizeOrderNumber(number)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	order, err := s.repo.FindByNumberAndEmail(ctx, number, email)
	if err != nil {
		return nil, orderLookupError(err)
	}
	return order, nil
}

func (s *service) ListByUser(ctx context.Context, userID uint64, params pagination.Params) (*OrderList, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error) {
	list, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) AdminUpdate(ctx context.Context, id uint64, input AdminUpdateInput) (*models.Order, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	updates := map[string]any{}
	var newStatus *enums.OrderStatus
	if input.Status != nil {
		status, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		updates["status"] = status
		newStatus = &status
	}
	if input.PaymentStatus != nil {
		status, err := enums.ParsePaymentStatus(*input.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		updates["payment_status"] = status
	}
	if input.TrackingNumber != nil {
		updates["tracking_number"] = *input.TrackingNumber
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	previous, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, orderLookupError(err)
	}

	if err := s.repo.UpdateFields(ctx, id, updates); err != nil {
		return nil, orderLookupError(err)
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, orderLookupError(err)
	}

	if s.mailer != nil && newStatus != nil && previous.Status != *newStatus {
		if mailErr := s.mailer.SendOrderStatusUpdate(ctx, order, previous.Status); mailErr != nil {
			logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
			logCtx = s.logg.WithField(logCtx, "error", mailErr.Error())
			s.logg.Warn(logCtx, "status update email failed")
		}
	}

	if s.mailer != nil && input.TrackingNumber != nil && trackingChanged(previous.TrackingNumber, *input.TrackingNumber) {
		if mailErr := s.mailer.SendTrackingUpdate(ctx, order); mailErr != nil {
			logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
			logCtx = s.logg.WithField(logCtx, "error", mailErr.Error())
			s.logg.Warn(logCtx, "tracking update email failed")
		}
	}

	return order, nil
}

func trackingChanged(previous *string, submitted string) bool {
	return previous == nil || *previous != submitted
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	if id == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return orderLookupError(err)
	}
	return nil
}

func orderLookupError(err error) error {
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func normalizeOrderNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

func randomOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, orderNumberLength)
	for i, b := range buf {
		out[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}
	return orderNumberPrefix + string(out), nil
}

// AsTrackingView reduces an order to the fields exposed on public tracking.
func AsTrackingView(order *models.Order) types.JSONMap {
	view := types.JSONMap{
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"created_at":     order.CreatedAt,
		"updated_at":     order.UpdatedAt,
	}
	if order.TrackingNumber != nil {
		view["tracking_number"] = *order.TrackingNumber
	}
	items := make([]types.JSONMap, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, types.JSONMap{
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"price":        item.Price,
		})
	}
	view["items"] = items
	return view
}
