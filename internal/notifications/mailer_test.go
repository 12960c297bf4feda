package notifications

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/AlaHassouna/Waw-Tee/pkg/db/models"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
)

type captureClient struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (c *captureClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	c.sent = append(c.sent, email)
	if c.err != nil {
		return nil, c.err
	}
	status := c.status
	if status == 0 {
		status = http.StatusAccepted
	}
	return &rest.Response{StatusCode: status}, nil
}

func testMailer(client sendClient) *service {
	return &service{
		client: client,
		from:   mail.NewEmail("Waw-Tee", "shop@waw-tee.example"),
		logg:   logger.New(logger.Options{ServiceName: "test"}),
	}
}

func shippedOrder() *models.Order {
	tracking := "TRK-123"
	return &models.Order{
		OrderNumber:    "ORD-MAIL0001",
		FirstName:      "Ala",
		LastName:       "Hassouna",
		Email:          "buyer@example.com",
		TrackingNumber: &tracking,
	}
}

func TestSendTrackingUpdateIncludesTrackingNumber(t *testing.T) {
	client := &captureClient{}
	svc := testMailer(client)

	if err := svc.SendTrackingUpdate(context.Background(), shippedOrder()); err != nil {
		t.Fatalf("SendTrackingUpdate: %v", err)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(client.sent))
	}

	message := client.sent[0]
	if !strings.Contains(message.Subject, "ORD-MAIL0001") {
		t.Fatalf("subject = %q", message.Subject)
	}
	if len(message.Content) == 0 || !strings.Contains(message.Content[0].Value, "TRK-123") {
		t.Fatal("body does not carry the tracking number")
	}
}

func TestSendTrackingUpdateSurfacesSendgridErrors(t *testing.T) {
	client := &captureClient{status: http.StatusUnauthorized}
	svc := testMailer(client)

	if err := svc.SendTrackingUpdate(context.Background(), shippedOrder()); err == nil {
		t.Fatal("expected error for sendgrid failure status")
	}
}

func TestDisabledMailerSkipsSending(t *testing.T) {
	client := &captureClient{}
	svc := testMailer(client)
	svc.disabled = true

	if err := svc.SendTrackingUpdate(context.Background(), shippedOrder()); err != nil {
		t.Fatalf("disabled mailer must not fail: %v", err)
	}
	if len(client.sent) != 0 {
		t.Fatal("disabled mailer must not send")
	}
}
