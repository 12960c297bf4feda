package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AlaHassouna/Waw-Tee/internal/products"
	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
	"github.com/AlaHassouna/Waw-Tee/pkg/pagination"
	"github.com/AlaHassouna/Waw-Tee/pkg/types"
)

type stubOrderRepo struct {
	ordersByID     map[uint64]*models.Order
	ordersByNumber map[string]*models.Order
	nextID         uint64
	createCalls    int
	failCreates    int
	updates        map[string]any
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		ordersByID:     map[uint64]*models.Order{},
		ordersByNumber: map[string]*models.Order{},
		nextID:         1,
	}
}

func (r *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	r.createCalls++
	if r.failCreates > 0 {
		r.failCreates--
		return nil, errors.New(`duplicate key value violates unique constraint "idx_orders_order_number"`)
	}
	if _, exists := r.ordersByNumber[order.OrderNumber]; exists {
		return nil, errors.New(`duplicate key value violates unique constraint "idx_orders_order_number"`)
	}
	order.ID = r.nextID
	r.nextID++
	r.ordersByID[order.ID] = order
	r.ordersByNumber[order.OrderNumber] = order
	return order, nil
}

func (r *stubOrderRepo) Save(ctx context.Context, order *models.Order) error {
	r.ordersByID[order.ID] = order
	r.ordersByNumber[order.OrderNumber] = order
	return nil
}

// Finders hand out copies so callers holding a snapshot do not observe
// later writes, matching what a fresh SELECT returns.
func (r *stubOrderRepo) FindByID(ctx context.Context, id uint64) (*models.Order, error) {
	order, ok := r.ordersByID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubOrderRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*models.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *stubOrderRepo) FindByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	order, ok := r.ordersByNumber[number]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubOrderRepo) FindByNumberAndEmail(ctx context.Context, number, email string) (*models.Order, error) {
	order, ok := r.ordersByNumber[number]
	if !ok || !strings.EqualFold(order.Email, email) {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubOrderRepo) FindByProviderRef(ctx context.Context, providerRef string) (*models.Order, error) {
	for _, order := range r.ordersByID {
		if order.PaymentIntentID != nil && *order.PaymentIntentID == providerRef {
			clone := *order
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	_, ok := r.ordersByNumber[number]
	return ok, nil
}

func (r *stubOrderRepo) ListByUser(ctx context.Context, userID uint64, params pagination.Params) (*OrderList, error) {
	list := &OrderList{}
	for _, order := range r.ordersByID {
		if order.UserID != nil && *order.UserID == userID {
			list.Items = append(list.Items, *order)
		}
	}
	return list, nil
}

func (r *stubOrderRepo) ListAll(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderList, error) {
	list := &OrderList{}
	for _, order := range r.ordersByID {
		list.Items = append(list.Items, *order)
	}
	return list, nil
}

func (r *stubOrderRepo) UpdateFields(ctx context.Context, id uint64, updates map[string]any) error {
	order, ok := r.ordersByID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.updates = updates
	if status, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = status
	}
	if status, ok := updates["payment_status"].(enums.PaymentStatus); ok {
		order.PaymentStatus = status
	}
	if tracking, ok := updates["tracking_number"].(string); ok {
		order.TrackingNumber = &tracking
	}
	if notes, ok := updates["notes"].(string); ok {
		order.Notes = &notes
	}
	return nil
}

func (r *stubOrderRepo) Delete(ctx context.Context, id uint64) error {
	order, ok := r.ordersByID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.ordersByID, id)
	delete(r.ordersByNumber, order.OrderNumber)
	return nil
}

type stubProductRepo struct {
	products   map[uint64]models.Product
	increments map[uint64]int
}

func (r *stubProductRepo) WithTx(tx *gorm.DB) products.Repository { return r }

func (r *stubProductRepo) FindActiveByIDs(ctx context.Context, ids []uint64) ([]models.Product, error) {
	var rows []models.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok && product.IsActive {
			rows = append(rows, product)
		}
	}
	return rows, nil
}

func (r *stubProductRepo) IncrementSalesCount(ctx context.Context, id uint64, qty int) error {
	if r.increments == nil {
		r.increments = map[uint64]int{}
	}
	r.increments[id] += qty
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubMailer struct {
	confirmations   []string
	statusUpdates   []enums.OrderStatus
	trackingUpdates []string
	err             error
}

func (m *stubMailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	m.confirmations = append(m.confirmations, order.OrderNumber)
	return m.err
}

func (m *stubMailer) SendOrderStatusUpdate(ctx context.Context, order *models.Order, previous enums.OrderStatus) error {
	m.statusUpdates = append(m.statusUpdates, previous)
	return m.err
}

func (m *stubMailer) SendTrackingUpdate(ctx context.Context, order *models.Order) error {
	tracking := ""
	if order.TrackingNumber != nil {
		tracking = *order.TrackingNumber
	}
	m.trackingUpdates = append(m.trackingUpdates, tracking)
	return m.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func newTestService(t *testing.T, repo *stubOrderRepo, productRepo *stubProductRepo, mailer *stubMailer) *service {
	t.Helper()
	svc, err := NewService(repo, productRepo, stubTxRunner{}, mailer, nil, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc.(*service)
}

func activeProduct(id uint64, name string, price string) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Slug:     strings.ToLower(name),
		Price:    decimal.RequireFromString(price),
		Currency: "EUR",
		IsActive: true,
	}
}

func validCreateInput() CreateInput {
	return CreateInput{
		Items: []ItemInput{
			{ProductID: 1, Variant: "oversize", Quantity: 2, Price: decimal.RequireFromString("19.99")},
			{ProductID: 2, Variant: "regular", Quantity: 1, Price: decimal.RequireFromString("35.00")},
		},
		FirstName:     "Ala",
		LastName:      "Hassouna",
		Email:         "Buyer@Example.COM",
		Phone:         "+21612345678",
		Street:        "12 Rue des Orangers",
		City:          "Tunis",
		State:         "Tunis",
		ZipCode:       "1001",
		Country:       "tn",
		PaymentMethod: "stripe",
		ShippingCost:  decimal.RequireFromString("7.00"),
		TaxAmount:     decimal.RequireFromString("5.25"),
	}
}

func TestServiceCreateComputesTotals(t *testing.T) {
	repo := newStubOrderRepo()
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	mailer := &stubMailer{}
	svc := newTestService(t, repo, productRepo, mailer)

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !order.Subtotal.Equal(decimal.RequireFromString("74.98")) {
		t.Fatalf("subtotal = %s, want 74.98", order.Subtotal)
	}
	if !order.Total.Equal(decimal.RequireFromString("87.23")) {
		t.Fatalf("total = %s, want 87.23", order.Total)
	}
	if !order.Total.Equal(order.TotalAmount) {
		t.Fatalf("total %s and total_amount %s diverged", order.Total, order.TotalAmount)
	}
	if order.Status != enums.OrderStatusPending || order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("unexpected initial statuses %s/%s", order.Status, order.PaymentStatus)
	}
	if order.Email != "buyer@example.com" {
		t.Fatalf("email not normalized: %s", order.Email)
	}
	if order.Country != "TN" {
		t.Fatalf("country not normalized: %s", order.Country)
	}
	if !strings.HasPrefix(order.OrderNumber, "ORD-") || len(order.OrderNumber) != len("ORD-")+8 {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}

	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	snapshot := order.Items[0].ProductSnapshot
	if snapshot == nil {
		t.Fatal("missing product snapshot")
	}
	// The snapshot keeps the catalog price even when the submitted line
	// price differs.
	if got := (*snapshot)["price"]; got != "18.00" {
		t.Fatalf("snapshot price = %v, want 18.00", got)
	}

	if productRepo.increments[1] != 2 || productRepo.increments[2] != 1 {
		t.Fatalf("sales counts not incremented: %v", productRepo.increments)
	}
	if len(mailer.confirmations) != 1 {
		t.Fatalf("expected one confirmation email, got %d", len(mailer.confirmations))
	}
}

// Colliding numbers are skipped with a lookup before the single insert, so
// the transaction never has to survive a failed INSERT.
func TestServiceCreateSkipsTakenOrderNumbers(t *testing.T) {
	repo := newStubOrderRepo()
	for _, taken := range []string{"ORD-TEST0001", "ORD-TEST0002"} {
		repo.ordersByNumber[taken] = &models.Order{OrderNumber: taken}
	}
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	seq := 0
	svc.generateNumber = func() (string, error) {
		seq++
		return fmt.Sprintf("ORD-TEST%04d", seq), nil
	}

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected a single insert, got %d", repo.createCalls)
	}
	if order.OrderNumber != "ORD-TEST0003" {
		t.Fatalf("expected the third generated number, got %q", order.OrderNumber)
	}
}

func TestServiceCreateExhaustsCollisionRetries(t *testing.T) {
	repo := newStubOrderRepo()
	for seq := 1; seq <= orderNumberAttempts; seq++ {
		taken := fmt.Sprintf("ORD-TEST%04d", seq)
		repo.ordersByNumber[taken] = &models.Order{OrderNumber: taken}
	}
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	seq := 0
	svc.generateNumber = func() (string, error) {
		seq++
		return fmt.Sprintf("ORD-TEST%04d", seq), nil
	}

	_, err := svc.Create(context.Background(), validCreateInput())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("no insert must be attempted, got %d", repo.createCalls)
	}
}

// A duplicate slipping in between the lookup and the insert still surfaces
// as a conflict instead of a half-committed order.
func TestServiceCreateMapsInsertRaceToConflict(t *testing.T) {
	repo := newStubOrderRepo()
	repo.failCreates = 1
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	_, err := svc.Create(context.Background(), validCreateInput())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected a single insert attempt, got %d", repo.createCalls)
	}
}

func TestServiceCreateValidatesSubmittedTotal(t *testing.T) {
	repo := newStubOrderRepo()
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	input := validCreateInput()
	wrong := decimal.RequireFromString("99.99")
	input.TotalAmount = &wrong
	_, err := svc.Create(context.Background(), input)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	details, ok := appErr.Details().(map[string]any)
	if !ok || details["expected"] != "87.23" {
		t.Fatalf("details = %v", appErr.Details())
	}
	if repo.createCalls != 0 {
		t.Fatal("order must not be created")
	}

	matching := decimal.RequireFromString("87.23")
	input.TotalAmount = &matching
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("matching total rejected: %v", err)
	}
}

func TestServiceCreateKeepsItemAttributes(t *testing.T) {
	repo := newStubOrderRepo()
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	input := validCreateInput()
	color := types.JSONMap{"name": "noir", "hex": "#000000"}
	custom := types.JSONMap{"text": "WAW", "position": "front"}
	input.Items[0].Color = &color
	input.Items[0].Customization = &custom

	order, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	first := order.Items[0]
	if first.Variant != "oversize" {
		t.Fatalf("variant = %q", first.Variant)
	}
	if first.Color == nil || (*first.Color)["hex"] != "#000000" {
		t.Fatalf("color not kept: %v", first.Color)
	}
	if first.Customization == nil || (*first.Customization)["text"] != "WAW" {
		t.Fatalf("customization not kept: %v", first.Customization)
	}
}

func TestServiceCreateRejectsUnknownProduct(t *testing.T) {
	repo := newStubOrderRepo()
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	_, err := svc.Create(context.Background(), validCreateInput())
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatal("order must not be created")
	}
}

func TestServiceCreateRejectsInactiveProduct(t *testing.T) {
	inactive := activeProduct(2, "Hoodie", "35.00")
	inactive.IsActive = false

	repo := newStubOrderRepo()
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: inactive,
	}}
	svc := newTestService(t, repo, productRepo, &stubMailer{})

	_, err := svc.Create(context.Background(), validCreateInput())
	if err == nil {
		t.Fatal("expected error for inactive product")
	}
}

func TestServiceCreateRejectsUnsupportedPaymentMethod(t *testing.T) {
	svc := newTestService(t, newStubOrderRepo(), &stubProductRepo{}, &stubMailer{})

	input := validCreateInput()
	input.PaymentMethod = "wire"
	_, err := svc.Create(context.Background(), input)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceCreateSurvivesMailFailure(t *testing.T) {
	repo := newStubOrderRepo()
	productRepo := &stubProductRepo{products: map[uint64]models.Product{
		1: activeProduct(1, "Classic Tee", "18.00"),
		2: activeProduct(2, "Hoodie", "35.00"),
	}}
	mailer := &stubMailer{err: errors.New("sendgrid down")}
	svc := newTestService(t, repo, productRepo, mailer)

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create must not fail on mail errors: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("order not persisted")
	}
}

func TestServiceTrackGuestChecksEmail(t *testing.T) {
	repo := newStubOrderRepo()
	order := &models.Order{ID: 7, OrderNumber: "ORD-GUEST001", Email: "buyer@example.com"}
	repo.ordersByID[7] = order
	repo.ordersByNumber[order.OrderNumber] = order
	svc := newTestService(t, repo, &stubProductRepo{}, &stubMailer{})

	found, err := svc.TrackGuest(context.Background(), "ord-guest001", "BUYER@example.com")
	if err != nil {
		t.Fatalf("TrackGuest: %v", err)
	}
	if found.ID != 7 {
		t.Fatalf("wrong order returned: %d", found.ID)
	}

	_, err = svc.TrackGuest(context.Background(), "ORD-GUEST001", "other@example.com")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for mismatched email, got %v", err)
	}
}

func TestServiceGetMapsMissingOrder(t *testing.T) {
	svc := newTestService(t, newStubOrderRepo(), &stubProductRepo{}, &stubMailer{})

	_, err := svc.Get(context.Background(), 42)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAdminUpdateSendsStatusEmail(t *testing.T) {
	repo := newStubOrderRepo()
	order := &models.Order{ID: 3, OrderNumber: "ORD-ADMIN001", Status: enums.OrderStatusPending}
	repo.ordersByID[3] = order
	repo.ordersByNumber[order.OrderNumber] = order
	mailer := &stubMailer{}
	svc := newTestService(t, repo, &stubProductRepo{}, mailer)

	status := "shipped"
	tracking := "TRK-123"
	updated, err := svc.AdminUpdate(context.Background(), 3, AdminUpdateInput{Status: &status, TrackingNumber: &tracking})
	if err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if updated.Status != enums.OrderStatusShipped {
		t.Fatalf("status = %s, want shipped", updated.Status)
	}
	if updated.TrackingNumber == nil || *updated.TrackingNumber != "TRK-123" {
		t.Fatal("tracking number not applied")
	}
	if len(mailer.statusUpdates) != 1 || mailer.statusUpdates[0] != enums.OrderStatusPending {
		t.Fatalf("status email not sent with previous status: %v", mailer.statusUpdates)
	}
	if len(mailer.trackingUpdates) != 1 || mailer.trackingUpdates[0] != "TRK-123" {
		t.Fatalf("tracking email not sent: %v", mailer.trackingUpdates)
	}
}

func TestServiceAdminUpdateSendsTrackingEmailWithoutStatusChange(t *testing.T) {
	repo := newStubOrderRepo()
	order := &models.Order{ID: 4, OrderNumber: "ORD-ADMIN002", Status: enums.OrderStatusShipped}
	repo.ordersByID[4] = order
	repo.ordersByNumber[order.OrderNumber] = order
	mailer := &stubMailer{}
	svc := newTestService(t, repo, &stubProductRepo{}, mailer)

	tracking := "TRK-456"
	if _, err := svc.AdminUpdate(context.Background(), 4, AdminUpdateInput{TrackingNumber: &tracking}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if len(mailer.statusUpdates) != 0 {
		t.Fatalf("no status email expected: %v", mailer.statusUpdates)
	}
	if len(mailer.trackingUpdates) != 1 || mailer.trackingUpdates[0] != "TRK-456" {
		t.Fatalf("tracking email not sent: %v", mailer.trackingUpdates)
	}
}

func TestServiceAdminUpdateSkipsUnchangedTracking(t *testing.T) {
	repo := newStubOrderRepo()
	existing := "TRK-789"
	order := &models.Order{ID: 5, OrderNumber: "ORD-ADMIN003", Status: enums.OrderStatusShipped, TrackingNumber: &existing}
	repo.ordersByID[5] = order
	repo.ordersByNumber[order.OrderNumber] = order
	mailer := &stubMailer{}
	svc := newTestService(t, repo, &stubProductRepo{}, mailer)

	same := "TRK-789"
	if _, err := svc.AdminUpdate(context.Background(), 5, AdminUpdateInput{TrackingNumber: &same}); err != nil {
		t.Fatalf("AdminUpdate: %v", err)
	}
	if len(mailer.trackingUpdates) != 0 {
		t.Fatalf("no tracking email expected: %v", mailer.trackingUpdates)
	}
}

func TestServiceAdminUpdateRejectsEmptyInput(t *testing.T) {
	svc := newTestService(t, newStubOrderRepo(), &stubProductRepo{}, &stubMailer{})

	_, err := svc.AdminUpdate(context.Background(), 3, AdminUpdateInput{})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAdminUpdateRejectsInvalidStatus(t *testing.T) {
	svc := newTestService(t, newStubOrderRepo(), &stubProductRepo{}, &stubMailer{})

	status := "teleported"
	_, err := svc.AdminUpdate(context.Background(), 3, AdminUpdateInput{Status: &status})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRandomOrderNumberShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number, err := randomOrderNumber()
		if err != nil {
			t.Fatalf("randomOrderNumber: %v", err)
		}
		if !strings.HasPrefix(number, orderNumberPrefix) {
			t.Fatalf("missing prefix: %q", number)
		}
		body := strings.TrimPrefix(number, orderNumberPrefix)
		if len(body) != orderNumberLength {
			t.Fatalf("unexpected length: %q", number)
		}
		for _, c := range body {
			if !strings.ContainsRune(orderNumberCharset, c) {
				t.Fatalf("unexpected character %q in %q", c, number)
			}
		}
		seen[number] = true
	}
	if len(seen) < 2 {
		t.Fatal("numbers do not vary")
	}
}
