package jwtadapter

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newSelfIssuedValidator(t *testing.T, now time.Time) *Validator {
	t.Helper()
	validator, err := NewValidator(Config{
		Mode:          entities.TokenModeSelfIssued,
		Secret:        testSecret,
		RequireExpiry: true,
	}, fixedClock{now: now})
	if err != nil {
		t.Fatalf("new validator failed: %v", err)
	}
	return validator
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func TestValidateRejectsMalformedHeaders(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token := signHS256(t, testSecret, jwt.MapClaims{"sub": "7", "exp": now.Add(time.Hour).Unix()})

	headers := []string{
		"",
		token,
		"Token " + token,
		"bearer " + token,
		"Bearer",
		"Bearer ",
		"Bearer " + token + " extra",
		"Bearer  " + token,
	}
	for _, header := range headers {
		_, err := validator.Validate(context.Background(), header)
		if !errors.Is(err, domainerrors.ErrMissingCredential) {
			t.Fatalf("header %q: expected ErrMissingCredential, got %v", header, err)
		}
	}
}

func TestValidateAcceptsSelfIssuedToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token := signHS256(t, testSecret, jwt.MapClaims{
		"sub":   "42",
		"email": "buyer@example.com",
		"role":  "admin",
		"iat":   now.Add(-time.Minute).Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})

	claims, err := validator.Validate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected token to validate, got %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", claims.Subject)
	}
	if claims.Email != "buyer@example.com" {
		t.Fatalf("expected email to be carried, got %q", claims.Email)
	}
	if claims.RoleHint != "admin" {
		t.Fatalf("expected role hint to be carried for diagnostics, got %q", claims.RoleHint)
	}
	if claims.Mode != entities.TokenModeSelfIssued {
		t.Fatalf("expected self_issued mode, got %s", claims.Mode)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour).Truncate(time.Second)) {
		t.Fatalf("unexpected expiry %s", claims.ExpiresAt)
	}
}

func TestValidateFallsBackToLegacyIDClaim(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token := signHS256(t, testSecret, jwt.MapClaims{
		"id":    15,
		"email": "seller@example.com",
		"name":  "Seller",
		"role":  "seller",
		"exp":   now.Add(time.Hour).Unix(),
	})

	claims, err := validator.Validate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected legacy token to validate, got %v", err)
	}
	if claims.Subject != "15" {
		t.Fatalf("expected subject 15 from id claim, got %q", claims.Subject)
	}
}

func TestValidateRejectsWrongSignature(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token := signHS256(t, "another-secret", jwt.MapClaims{"sub": "1", "exp": now.Add(time.Hour).Unix()})

	_, err := validator.Validate(context.Background(), "Bearer "+token)
	if !errors.Is(err, domainerrors.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	validator := newSelfIssuedValidator(t, time.Now().UTC())

	_, err := validator.Validate(context.Background(), "Bearer not-a-jwt")
	if !errors.Is(err, domainerrors.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateRejectsUnsignedToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token failed: %v", err)
	}

	_, err = validator.Validate(context.Background(), "Bearer "+token)
	if !errors.Is(err, domainerrors.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateDistinguishesExpiredFromForged(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)

	expired := signHS256(t, testSecret, jwt.MapClaims{"sub": "1", "exp": now.Add(-time.Minute).Unix()})
	_, err := validator.Validate(context.Background(), "Bearer "+expired)
	if !errors.Is(err, domainerrors.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if errors.Is(err, domainerrors.ErrInvalidSignature) {
		t.Fatalf("expired token must not be reported as forged")
	}

	forgedExpired := signHS256(t, "wrong", jwt.MapClaims{"sub": "1", "exp": now.Add(-time.Minute).Unix()})
	_, err = validator.Validate(context.Background(), "Bearer "+forgedExpired)
	if !errors.Is(err, domainerrors.ErrInvalidSignature) {
		t.Fatalf("expected forged token to fail signature first, got %v", err)
	}
}

func TestValidateRequiresExpiryWhenConfigured(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token := signHS256(t, testSecret, jwt.MapClaims{"sub": "1"})

	_, err := validator.Validate(context.Background(), "Bearer "+token)
	if !errors.Is(err, domainerrors.ErrMalformedClaims) {
		t.Fatalf("expected ErrMalformedClaims, got %v", err)
	}
}

func TestValidateRequiresSubject(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator := newSelfIssuedValidator(t, now)
	token := signHS256(t, testSecret, jwt.MapClaims{"email": "a@b.co", "exp": now.Add(time.Hour).Unix()})

	_, err := validator.Validate(context.Background(), "Bearer "+token)
	if !errors.Is(err, domainerrors.ErrMalformedClaims) {
		t.Fatalf("expected ErrMalformedClaims, got %v", err)
	}
}

func TestValidateChecksIssuerPrefix(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator, err := NewValidator(Config{
		Mode:         entities.TokenModeExternal,
		Secret:       testSecret,
		IssuerPrefix: "https://clerk.carparts.dev",
	}, fixedClock{now: now})
	if err != nil {
		t.Fatalf("new validator failed: %v", err)
	}

	trusted := signHS256(t, testSecret, jwt.MapClaims{
		"sub": "user_2abc",
		"iss": "https://clerk.carparts.dev/tenant",
		"exp": now.Add(time.Hour).Unix(),
	})
	claims, err := validator.Validate(context.Background(), "Bearer "+trusted)
	if err != nil {
		t.Fatalf("expected trusted issuer to pass, got %v", err)
	}
	if claims.Subject != "user_2abc" || claims.Mode != entities.TokenModeExternal {
		t.Fatalf("unexpected claims %+v", claims)
	}

	untrusted := signHS256(t, testSecret, jwt.MapClaims{
		"sub": "user_2abc",
		"iss": "https://evil.example.com",
		"exp": now.Add(time.Hour).Unix(),
	})
	_, err = validator.Validate(context.Background(), "Bearer "+untrusted)
	if !errors.Is(err, domainerrors.ErrUntrustedIssuer) {
		t.Fatalf("expected ErrUntrustedIssuer, got %v", err)
	}
}

func TestValidateExternalModeIgnoresRoleAndLegacyID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator, err := NewValidator(Config{Mode: entities.TokenModeExternal, Secret: testSecret}, fixedClock{now: now})
	if err != nil {
		t.Fatalf("new validator failed: %v", err)
	}

	token := signHS256(t, testSecret, jwt.MapClaims{"id": 3, "role": "admin", "exp": now.Add(time.Hour).Unix()})
	_, err = validator.Validate(context.Background(), "Bearer "+token)
	if !errors.Is(err, domainerrors.ErrMalformedClaims) {
		t.Fatalf("expected ErrMalformedClaims without sub, got %v", err)
	}

	token = signHS256(t, testSecret, jwt.MapClaims{"sub": "idp-9", "role": "admin", "exp": now.Add(time.Hour).Unix()})
	claims, err := validator.Validate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected token to validate, got %v", err)
	}
	if claims.RoleHint != "" {
		t.Fatalf("expected no role hint in external mode, got %q", claims.RoleHint)
	}
}

func TestValidateExternalRSAToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key failed: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key failed: %v", err)
	}
	publicPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	validator, err := NewValidator(Config{
		Mode:          entities.TokenModeExternal,
		PublicKeyPEM:  publicPEM,
		RequireExpiry: true,
	}, fixedClock{now: now})
	if err != nil {
		t.Fatalf("new validator failed: %v", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "idp-user-1",
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString(key)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	claims, err := validator.Validate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected RSA token to validate, got %v", err)
	}
	if claims.Subject != "idp-user-1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}

	hmacToken := signHS256(t, "anything", jwt.MapClaims{"sub": "idp-user-1", "exp": now.Add(time.Hour).Unix()})
	_, err = validator.Validate(context.Background(), "Bearer "+hmacToken)
	if !errors.Is(err, domainerrors.ErrInvalidSignature) {
		t.Fatalf("expected HMAC token to be rejected by RSA validator, got %v", err)
	}
}

func TestNewValidatorRequiresKeyMaterial(t *testing.T) {
	if _, err := NewValidator(Config{Mode: entities.TokenModeSelfIssued}, nil); err == nil {
		t.Fatalf("expected error without secret")
	}
	if _, err := NewValidator(Config{Mode: "bogus", Secret: "x"}, nil); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
