package jwtadapter

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// Config carries the trusted key material and validation policy.
type Config struct {
	Mode          entities.TokenMode
	Secret        string
	PublicKeyPEM  string
	IssuerPrefix  string
	RequireExpiry bool
	Leeway        time.Duration
}

// Validator implements ports.TokenValidator for both self-issued and
// externally-issued bearer tokens.
type Validator struct {
	mode         entities.TokenMode
	secret       []byte
	publicKey    *rsa.PublicKey
	issuerPrefix string
	requireExp   bool
	leeway       time.Duration
	clock        ports.Clock
}

type tokenClaims struct {
	jwt.RegisteredClaims
	LegacyID any    `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

func NewValidator(cfg Config, clock ports.Clock) (*Validator, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = entities.TokenModeSelfIssued
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unsupported token mode %q", mode)
	}

	v := &Validator{
		mode:         mode,
		secret:       []byte(cfg.Secret),
		issuerPrefix: strings.TrimSpace(cfg.IssuerPrefix),
		requireExp:   cfg.RequireExpiry,
		leeway:       cfg.Leeway,
		clock:        clock,
	}
	if mode == entities.TokenModeExternal && strings.TrimSpace(cfg.PublicKeyPEM) != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse token public key: %w", err)
		}
		v.publicKey = key
	}
	if v.publicKey == nil && len(v.secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	return v, nil
}

// Validate checks the header shape, signature, expiry, issuer and subject, in
// that order.
func (v *Validator) Validate(_ context.Context, authorizationHeader string) (entities.Claims, error) {
	raw, err := bearerToken(authorizationHeader)
	if err != nil {
		return entities.Claims{}, err
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods(v.validMethods()),
		jwt.WithTimeFunc(v.now),
		jwt.WithJSONNumber(),
		jwt.WithIssuedAt(),
	}
	if v.leeway > 0 {
		options = append(options, jwt.WithLeeway(v.leeway))
	}
	if v.requireExp {
		options = append(options, jwt.WithExpirationRequired())
	}

	var parsed tokenClaims
	if _, err := jwt.ParseWithClaims(raw, &parsed, v.keyFunc, options...); err != nil {
		return entities.Claims{}, classifyParseError(err)
	}

	if v.issuerPrefix != "" && !strings.HasPrefix(parsed.Issuer, v.issuerPrefix) {
		return entities.Claims{}, domainerrors.ErrUntrustedIssuer
	}

	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" && v.mode == entities.TokenModeSelfIssued {
		subject = legacySubject(parsed.LegacyID)
	}
	if subject == "" {
		return entities.Claims{}, domainerrors.ErrMalformedClaims
	}

	claims := entities.Claims{
		Subject: subject,
		Email:   strings.TrimSpace(parsed.Email),
		Issuer:  parsed.Issuer,
		Mode:    v.mode,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.UTC()
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.UTC()
	}
	if v.mode == entities.TokenModeSelfIssued {
		claims.RoleHint = parsed.Role
	}
	return claims, nil
}

func (v *Validator) keyFunc(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) == 0 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA:
		if v.publicKey == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

func (v *Validator) validMethods() []string {
	methods := make([]string, 0, 6)
	if len(v.secret) > 0 {
		methods = append(methods, "HS256", "HS384", "HS512")
	}
	if v.publicKey != nil {
		methods = append(methods, "RS256", "RS384", "RS512")
	}
	return methods
}

func (v *Validator) now() time.Time {
	if v.clock != nil {
		return v.clock.Now().UTC()
	}
	return time.Now().UTC()
}

// bearerToken requires exactly "Bearer <token>". The scheme is case-sensitive.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domainerrors.ErrMissingCredential
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", domainerrors.ErrMissingCredential
	}
	return parts[1], nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", domainerrors.ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", domainerrors.ErrMalformedClaims, err)
	default:
		return fmt.Errorf("%w: %v", domainerrors.ErrInvalidSignature, err)
	}
}

// legacySubject reads the numeric "id" claim older self-issued tokens carry
// instead of "sub".
func legacySubject(value any) string {
	switch typed := value.(type) {
	case json.Number:
		id, err := typed.Int64()
		if err != nil || id <= 0 {
			return ""
		}
		return strconv.FormatInt(id, 10)
	case float64:
		if typed <= 0 || typed != math.Trunc(typed) {
			return ""
		}
		return strconv.FormatInt(int64(typed), 10)
	case string:
		return strings.TrimSpace(typed)
	default:
		return ""
	}
}
