package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/AlaHassouna/Waw-Tee/pkg/errors"
)

type samplePayload struct {
	Name    string `json:"name" validate:"required,max=10"`
	Email   string `json:"email" validate:"required,email"`
	Country string `json:"country" validate:"required,len=2"`
	Method  string `json:"method" validate:"required,oneof=stripe paypal"`
}

func decodeSample(t *testing.T, body string) (samplePayload, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest samplePayload
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	dest, err := decodeSample(t, `{"name":"Ala","email":"a@b.com","country":"TN","method":"stripe"}`)
	if err != nil {
		t.Fatalf("DecodeJSONBody: %v", err)
	}
	if dest.Name != "Ala" || dest.Country != "TN" {
		t.Fatalf("unexpected payload %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decodeSample(t, `{"name":"Ala","email":"a@b.com","country":"TN","method":"stripe","extra":1}`)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	_, err := decodeSample(t, `{"name":`)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldMessages(t *testing.T) {
	_, err := decodeSample(t, `{"name":"this name is way too long","email":"nope","country":"TUN","method":"wire"}`)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}

	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("details type %T", appErr.Details())
	}
	// Field names come from the json tags, not the Go names.
	if details["name"] != "must be at most 10" {
		t.Fatalf("name message = %q", details["name"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("email message = %q", details["email"])
	}
	if details["country"] != "must be exactly 2 characters" {
		t.Fatalf("country message = %q", details["country"])
	}
	if details["method"] != "must be one of: stripe paypal" {
		t.Fatalf("method message = %q", details["method"])
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=30", nil)
	value, err := ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil || value != 30 {
		t.Fatalf("value = %d, err = %v", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err = ParseQueryInt(req, "limit", 20, 1, 100)
	if err != nil || value != 20 {
		t.Fatalf("default value = %d, err = %v", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err = ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected range error")
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, err = ParseQueryInt(req, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?unresolved=true", nil)
	value, err := ParseQueryBool(req, "unresolved", false)
	if err != nil || !value {
		t.Fatalf("value = %v, err = %v", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?unresolved=banana", nil)
	if _, err = ParseQueryBool(req, "unresolved", false); err == nil {
		t.Fatal("expected boolean error")
	}
}

func TestParseID(t *testing.T) {
	if _, err := ParseID("0"); err == nil {
		t.Fatal("zero must be rejected")
	}
	if _, err := ParseID("-4"); err == nil {
		t.Fatal("negatives must be rejected")
	}
	if _, err := ParseID("abc"); err == nil {
		t.Fatal("non-numeric must be rejected")
	}
	id, err := ParseID(" 42 ")
	if err != nil || id != 42 {
		t.Fatalf("id = %d, err = %v", id, err)
	}
}
