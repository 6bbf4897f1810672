package httpserver

import (
	"net/http"
	"testing"
	"time"

	identityv1 "carparts/contracts/identity/v1"

	"github.com/golang-jwt/jwt/v5"
)

func TestMalformedBearerHeadersNeverReachResolver(t *testing.T) {
	server := newTestServer()
	customer := server.seedUser("casey", identityv1.RoleCustomer)
	valid := bearerFor(t, customer)[len("Bearer "):]

	headers := []string{
		"",
		"Token " + valid,
		"Bearer",
		"bearer " + valid,
		"Bearer " + valid + " extra",
		"Basic dXNlcjpwYXNz",
	}
	for _, header := range headers {
		rr := server.do(http.MethodGet, "/api/orders", header, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d body=%s", header, rr.Code, rr.Body.String())
		}
		if code := errorCode(t, rr); code != "missing_credential" {
			t.Fatalf("header %q: expected missing_credential, got %q", header, code)
		}
	}
	if lookups := server.modules.Authorization.Store.LookupCount(); lookups != 0 {
		t.Fatalf("expected resolver to be skipped, got %d lookups", lookups)
	}
}

func TestTokenFailuresMapToDistinctCodes(t *testing.T) {
	server := newTestServer()
	customer := server.seedUser("casey", identityv1.RoleCustomer)

	cases := []struct {
		name  string
		token string
		code  string
	}{
		{
			name:  "wrong secret",
			token: signToken(t, jwt.MapClaims{"sub": "1"}, "other-secret"),
			code:  "invalid_token",
		},
		{
			name:  "expired",
			token: signToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret),
			code:  "token_expired",
		},
		{
			name:  "unknown user",
			token: signToken(t, jwt.MapClaims{"sub": "999"}, testSecret),
			code:  "unknown_identity",
		},
		{
			name:  "garbage",
			token: "not.a.jwt",
			code:  "invalid_token",
		},
	}
	for _, tc := range cases {
		rr := server.do(http.MethodGet, "/api/user/me", "Bearer "+tc.token, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d body=%s", tc.name, rr.Code, rr.Body.String())
		}
		if code := errorCode(t, rr); code != tc.code {
			t.Fatalf("%s: expected %s, got %q", tc.name, tc.code, code)
		}
	}

	rr := server.do(http.MethodGet, "/api/user/me", bearerFor(t, customer), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected valid token to pass, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRoleClaimCannotEscalatePrivileges(t *testing.T) {
	server := newTestServer()
	customer := server.seedUser("casey", identityv1.RoleCustomer)
	token := signToken(t, jwt.MapClaims{"sub": "1", "role": "admin"}, testSecret)
	if customer.UserID != 1 {
		t.Fatalf("expected seeded customer id 1, got %d", customer.UserID)
	}

	for _, path := range []string{"/api/admin/users", "/api/admin/orders", "/api/protected/admin"} {
		rr := server.do(http.MethodGet, path, "Bearer "+token, "")
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d body=%s", path, rr.Code, rr.Body.String())
		}
	}
}

func TestRoleChangeTakesEffectWithoutNewToken(t *testing.T) {
	server := newTestServer()
	admin := server.seedUser("root", identityv1.RoleAdmin)
	seller := server.seedUser("sam", identityv1.RoleSeller)
	sellerToken := bearerFor(t, seller)

	if rr := server.do(http.MethodGet, "/api/seller/parts", sellerToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected seller access, got %d", rr.Code)
	}

	rr := server.do(http.MethodPut, "/api/admin/users/2/role", bearerFor(t, admin), `{"role":"customer"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected role change, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodGet, "/api/seller/parts", sellerToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected demoted seller to be denied, got %d", rr.Code)
	}
}

func TestProtectedRoutesApplyCapabilitySets(t *testing.T) {
	server := newTestServer()
	customer := server.seedUser("casey", identityv1.RoleCustomer)
	seller := server.seedUser("sam", identityv1.RoleSeller)
	admin := server.seedUser("root", identityv1.RoleAdmin)

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/api/protected/user", bearerFor(t, customer), http.StatusOK},
		{"/api/protected/user", bearerFor(t, seller), http.StatusForbidden},
		{"/api/protected/seller", bearerFor(t, seller), http.StatusOK},
		{"/api/protected/seller", bearerFor(t, admin), http.StatusOK},
		{"/api/protected/seller", bearerFor(t, customer), http.StatusForbidden},
		{"/api/protected/admin", bearerFor(t, admin), http.StatusOK},
		{"/api/protected/admin", bearerFor(t, seller), http.StatusForbidden},
	}
	for _, tc := range cases {
		rr := server.do(http.MethodGet, tc.path, tc.token, "")
		if rr.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.path, tc.status, rr.Code, rr.Body.String())
		}
	}
}
