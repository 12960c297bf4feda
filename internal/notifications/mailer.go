package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/AlaHassouna/Waw-Tee/pkg/config"
	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
)

// Service sends customer-facing order emails.
type Service interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendOrderStatusUpdate(ctx context.Context, order *models.Order, previous enums.OrderStatus) error
	SendTrackingUpdate(ctx context.Context, order *models.Order) error
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type service struct {
	client   sendClient
	from     *mail.Email
	logg     *logger.Logger
	disabled bool
}

// NewService wires the Sendgrid mailer. When no API key is configured the
// mailer degrades to logging only, so local checkouts still work.
func NewService(cfg config.SendgridConfig, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	svc := &service{
		from: mail.NewEmail(cfg.FromName, cfg.DefaultFrom),
		logg: logg,
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		svc.disabled = true
		return svc, nil
	}

	svc.client = sendgrid.NewSendClient(apiKey)
	return svc, nil
}

func (s *service) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	body := confirmationBody(order)
	return s.send(ctx, order, subject, body)
}

func (s *service) SendOrderStatusUpdate(ctx context.Context, order *models.Order, previous enums.OrderStatus) error {
	subject := fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.Status)
	body := statusUpdateBody(order, previous)
	return s.send(ctx, order, subject, body)
}

func (s *service) SendTrackingUpdate(ctx context.Context, order *models.Order) error {
	subject := fmt.Sprintf("Order %s is on its way", order.OrderNumber)
	body := trackingUpdateBody(order)
	return s.send(ctx, order, subject, body)
}

func (s *service) send(ctx context.Context, order *models.Order, subject, body string) error {
	logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)

	if s.disabled {
		s.logg.Info(s.logg.WithField(logCtx, "subject", subject), "email sending disabled, skipping")
		return nil
	}

	to := mail.NewEmail(order.FirstName+" "+order.LastName, order.Email)
	message := mail.NewSingleEmail(s.from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send email: sendgrid status %d", resp.StatusCode)
	}

	s.logg.Info(s.logg.WithField(logCtx, "subject", subject), "email sent")
	return nil
}

func confirmationBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.FirstName)
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %dx %s", item.Quantity, item.ProductName)
		if item.Size != nil {
			fmt.Fprintf(&b, " (size %s)", *item.Size)
		}
		fmt.Fprintf(&b, " - %s %s\n", item.LineTotal().StringFixed(2), order.Currency)
	}
	fmt.Fprintf(&b, "\nTotal: %s %s\n", order.Total.StringFixed(2), order.Currency)
	b.WriteString("\nWe will let you know as soon as your order ships.\n")
	return b.String()
}

func trackingUpdateBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.FirstName)
	fmt.Fprintf(&b, "Your order %s has shipped.\n", order.OrderNumber)
	if order.TrackingNumber != nil && *order.TrackingNumber != "" {
		fmt.Fprintf(&b, "\nTracking number: %s\n", *order.TrackingNumber)
	}
	return b.String()
}

func statusUpdateBody(order *models.Order, previous enums.OrderStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.FirstName)
	fmt.Fprintf(&b, "Your order %s moved from %s to %s.\n", order.OrderNumber, previous, order.Status)
	if order.TrackingNumber != nil && *order.TrackingNumber != "" {
		fmt.Fprintf(&b, "\nTracking number: %s\n", *order.TrackingNumber)
	}
	return b.String()
}
