package pagination

import (
	"testing"
	"time"
)

func TestEncodeParseCursorRoundTrip(t *testing.T) {
	created := time.Date(2026, 2, 1, 10, 30, 0, 123456789, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: created, ID: 42})

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !parsed.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %s, want %s", parsed.CreatedAt, created)
	}
	if parsed.ID != 42 {
		t.Fatalf("id = %d, want 42", parsed.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	cursor, err := ParseCursor("   ")
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if cursor != nil {
		t.Fatal("expected nil cursor for blank input")
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":    "!!!",
		"no separator":  "bm9zZXBhcmF0b3I=",
		"bad timestamp": "bm90YXRpbWV8MTI=",
		"bad id":        "MjAyNi0wMi0wMVQxMDozMDowMFp8YWJj",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCursor(value); err == nil {
				t.Fatalf("expected error for %q", value)
			}
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("NormalizeLimit(0) = %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("NormalizeLimit(-3) = %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("NormalizeLimit(max+50) = %d", got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("NormalizeLimit(7) = %d", got)
	}
	if got := LimitWithBuffer(7); got != 8 {
		t.Fatalf("LimitWithBuffer(7) = %d", got)
	}
}
