package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAdminResolvePaymentError(t *testing.T) {
	svc := &fakePaymentsService{}
	handler := AdminResolvePaymentError(svc, nil)

	body := `{"resolved_by": "ops@wawtee.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/payment-errors/12/resolve", strings.NewReader(body))
	req = withURLParam(req, "id", "12")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.resolvedID != 12 || svc.resolvedBy != "ops@wawtee.com" {
		t.Fatalf("resolve not forwarded: id=%d by=%q", svc.resolvedID, svc.resolvedBy)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["message"] != "payment error resolved" {
		t.Fatalf("message = %v", envelope["message"])
	}
}

func TestAdminResolvePaymentErrorRequiresResolver(t *testing.T) {
	svc := &fakePaymentsService{}
	handler := AdminResolvePaymentError(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/payment-errors/12/resolve", strings.NewReader(`{}`))
	req = withURLParam(req, "id", "12")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminListPaymentErrorsValidatesQuery(t *testing.T) {
	svc := &fakePaymentsService{}
	handler := AdminListPaymentErrors(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/payment-errors?unresolved=banana", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/payment-errors?unresolved=true", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
