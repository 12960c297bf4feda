package auth

import (
	"testing"
	"time"

	"github.com/AlaHassouna/Waw-Tee/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "wawtee-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: 7,
		Email:  "admin@wawtee.com",
		Role:   "admin",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "admin@wawtee.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IsAdmin() {
		t.Fatal("admin role not detected")
	}
	if claims.ID == "" {
		t.Fatal("jti should be generated when omitted")
	}
}

func TestMintAccessTokenValidatesInput(t *testing.T) {
	now := time.Now().UTC()

	cases := map[string]struct {
		cfg     config.JWTConfig
		payload AccessTokenPayload
	}{
		"missing secret": {
			cfg:     config.JWTConfig{Issuer: "x", ExpirationMinutes: 5},
			payload: AccessTokenPayload{UserID: 1, Role: "customer"},
		},
		"missing issuer": {
			cfg:     config.JWTConfig{Secret: "s", ExpirationMinutes: 5},
			payload: AccessTokenPayload{UserID: 1, Role: "customer"},
		},
		"zero ttl": {
			cfg:     config.JWTConfig{Secret: "s", Issuer: "x"},
			payload: AccessTokenPayload{UserID: 1, Role: "customer"},
		},
		"missing user": {
			cfg:     testJWTConfig(),
			payload: AccessTokenPayload{Role: "customer"},
		},
		"missing role": {
			cfg:     testJWTConfig(),
			payload: AccessTokenPayload{UserID: 1},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, now, tc.payload); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().UTC().Add(-2 * time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{UserID: 1, Role: "customer"})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{UserID: 1, Role: "customer"})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestParseAccessTokenRejectsTamperedSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), AccessTokenPayload{UserID: 1, Role: "customer"})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}
