package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	identityv1 "carparts/contracts/identity/v1"
)

const partBody = `{"name":"Brake Pad","price":"49.99","category":"brakes","carName":"Civic","model":"EX","year":2020}`

func TestPublicPartsListing(t *testing.T) {
	server := newTestServer()
	seller := server.seedUser("sam", identityv1.RoleSeller)
	server.seedPart(seller.UserID, "Brake Pad", "49.99", true)

	rr := server.do(http.MethodGet, "/api/parts?carName=civ", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Parts []struct {
			Name string `json:"name"`
		} `json:"parts"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Parts) != 1 {
		t.Fatalf("expected one part, got %+v", resp.Parts)
	}

	if rr := server.do(http.MethodGet, "/api/parts/999", "", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing part, got %d", rr.Code)
	}
	if rr := server.do(http.MethodGet, "/api/parts?year=abc", "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad year filter, got %d", rr.Code)
	}
}

func TestCreatePartRequiresSellerOrAdmin(t *testing.T) {
	server := newTestServer()
	customer := server.seedUser("casey", identityv1.RoleCustomer)
	seller := server.seedUser("sam", identityv1.RoleSeller)

	if rr := server.do(http.MethodPost, "/api/parts", "", partBody); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr := server.do(http.MethodPost, "/api/parts", bearerFor(t, customer), partBody); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rr.Code)
	}
	if rr := server.do(http.MethodPost, "/api/parts", bearerFor(t, seller), partBody); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for seller, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodPost, "/api/seller/parts", bearerFor(t, seller), partBody); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 on seller alias, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr := server.do(http.MethodPost, "/api/parts", bearerFor(t, seller), `{"name":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rr.Code)
	}
}

func TestSellerOwnershipOnPartUpdates(t *testing.T) {
	server := newTestServer()
	owner := server.seedUser("sam", identityv1.RoleSeller)
	rival := server.seedUser("rita", identityv1.RoleSeller)
	admin := server.seedUser("root", identityv1.RoleAdmin)
	part := server.seedPart(owner.UserID, "Brake Pad", "49.99", true)
	path := fmt.Sprintf("/api/parts/%d", part.PartID)

	if rr := server.do(http.MethodPut, path, bearerFor(t, rival), `{"price":"1.00"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for other seller, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodDelete, path, bearerFor(t, rival), ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 delete for other seller, got %d", rr.Code)
	}
	if rr := server.do(http.MethodPut, path, bearerFor(t, owner), `{"inStock":false}`); rr.Code != http.StatusOK {
		t.Fatalf("expected owner update, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodPut, path, bearerFor(t, admin), `{"price":"45.00"}`); rr.Code != http.StatusOK {
		t.Fatalf("expected admin update, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodDelete, path, bearerFor(t, admin), ""); rr.Code != http.StatusOK {
		t.Fatalf("expected admin delete, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := server.do(http.MethodGet, path, "", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected deleted part to be gone, got %d", rr.Code)
	}
}
