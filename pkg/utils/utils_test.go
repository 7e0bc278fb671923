package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestTokenRoundTrip(t *testing.T) {
	ti, err := NewTokenIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	tok, err := ti.GenerateJWTToken(7, "Ann", "ann@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	c, err := ti.ValidateJWTToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.UserID != 7 || c.Username != "Ann" || c.Email != "ann@x.com" {
		t.Errorf("claims: got %+v", c)
	}
	if c.Subject != "7" {
		t.Errorf("subject: got %q", c.Subject)
	}
}

func TestTokenRejections(t *testing.T) {
	ti, _ := NewTokenIssuer("secret", time.Hour)
	other, _ := NewTokenIssuer("other", time.Hour)

	expired, _ := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	foreign, _ := other.GenerateJWTToken(1, "a", "a@b.c")
	stale, _ := expired.GenerateJWTToken(1, "a", "a@b.c")
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name string
		tok  string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"alg none", none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ti.ValidateJWTToken(tt.tok); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewTokenIssuerNeedsSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	s, err := RandomSecret()
	if err != nil || len(s) != 64 {
		t.Fatalf("random secret: %q %v", s, err)
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("p")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "p" || !strings.HasPrefix(h, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", h)
	}
	if !CheckPassword(h, "p") {
		t.Error("password should match")
	}
	if CheckPassword(h, "q") {
		t.Error("wrong password should not match")
	}
}

func TestSanitize(t *testing.T) {
	reason := "  headache "
	req := struct {
		Name   string
		Reason *string
		Count  int
	}{Name: "  Ann ", Reason: &reason, Count: 3}

	Sanitize(&req)
	if req.Name != "Ann" || *req.Reason != "headache" || req.Count != 3 {
		t.Errorf("got %+v (%q)", req, *req.Reason)
	}
}

func TestSanitizeSkipsTaggedFields(t *testing.T) {
	req := struct {
		Email    string
		Password string `sanitize:"-"`
	}{Email: " ann@x.com ", Password: " p "}

	Sanitize(&req)
	if req.Email != "ann@x.com" || req.Password != " p " {
		t.Errorf("got %+v", req)
	}
}

func TestMaxBytes(t *testing.T) {
	v := NewValidator()
	type form struct {
		Password string `json:"password" validate:"maxbytes=72"`
	}

	// 40 runes, 80 bytes
	if err := v.Struct(form{Password: strings.Repeat("é", 40)}); err == nil {
		t.Error("multibyte password over 72 bytes accepted")
	}
	if err := v.Struct(form{Password: strings.Repeat("é", 36)}); err != nil {
		t.Errorf("72 byte password rejected: %v", err)
	}
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := NewValidator()
	req := struct {
		UserID int64  `json:"user_id" validate:"required"`
		At     string `json:"appointment_date" validate:"required,rfc3339"`
	}{At: "2030-01-01 10:00"}

	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "user_id") || !strings.Contains(msg, "appointment_date") {
		t.Errorf("unexpected message: %s", msg)
	}

	req.UserID = 1
	req.At = "2030-01-01T10:00:00Z"
	if err := v.Struct(req); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}
