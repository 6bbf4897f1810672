package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	identityv1 "carparts/contracts/identity/v1"
)

func TestProfileAddressBook(t *testing.T) {
	server := newTestServer()
	customer := server.seedUser("casey", identityv1.RoleCustomer)
	other := server.seedUser("drew", identityv1.RoleCustomer)
	token := bearerFor(t, customer)

	if rr := server.do(http.MethodGet, "/api/user/me", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	var firstID int64
	for i := 1; i <= 4; i++ {
		body := fmt.Sprintf(`{"phoneNumber":"9876543210","address":"%d Main St"}`, i)
		rr := server.do(http.MethodPost, "/api/user/save-phone-and-address", token, body)
		if rr.Code != http.StatusOK {
			t.Fatalf("save %d: expected 200, got %d body=%s", i, rr.Code, rr.Body.String())
		}
		if i == 1 {
			var saved struct {
				Address struct {
					ID int64 `json:"id"`
				} `json:"address"`
			}
			decodeBody(t, rr, &saved)
			firstID = saved.Address.ID
		}
	}
	rr := server.do(http.MethodPost, "/api/user/save-phone-and-address", token, `{"phoneNumber":"9876543210","address":"5 Main St"}`)
	if rr.Code != http.StatusBadRequest || errorCode(t, rr) != "address_limit_reached" {
		t.Fatalf("expected address_limit_reached, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = server.do(http.MethodPost, "/api/user/save-phone-and-address", token, `{"phoneNumber":"12-34"}`)
	if rr.Code != http.StatusBadRequest || errorCode(t, rr) != "invalid_phone" {
		t.Fatalf("expected invalid_phone, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = server.do(http.MethodGet, "/api/user/addresses", token, "")
	var book struct {
		PhoneNumber string `json:"phoneNumber"`
		Addresses   []struct {
			ID int64 `json:"id"`
		} `json:"addresses"`
	}
	decodeBody(t, rr, &book)
	if book.PhoneNumber != "9876543210" || len(book.Addresses) != 4 {
		t.Fatalf("unexpected address book: %+v", book)
	}

	path := fmt.Sprintf("/api/user/addresses/%d", firstID)
	if rr := server.do(http.MethodDelete, path, bearerFor(t, other), ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting another user's address, got %d", rr.Code)
	}
	if rr := server.do(http.MethodDelete, path, token, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected owner delete, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = server.do(http.MethodGet, "/api/user/me", token, "")
	var me struct {
		User struct {
			Email       string `json:"email"`
			PhoneNumber string `json:"phoneNumber"`
		} `json:"user"`
	}
	decodeBody(t, rr, &me)
	if me.User.Email != "casey@example.com" || me.User.PhoneNumber != "9876543210" {
		t.Fatalf("unexpected profile: %+v", me.User)
	}
}
