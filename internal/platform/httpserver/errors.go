package httpserver

import (
	"errors"
	"net/http"

	authzerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	profileerrors "carparts/contexts/identity-access/profile-service/domain/errors"
	ordererrors "carparts/contexts/marketplace/order-service/domain/errors"
	ordershttp "carparts/contexts/marketplace/order-service/transport/http"
	partserrors "carparts/contexts/marketplace/parts-service/domain/errors"
)

func (s *Server) writeAuthDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrMissingCredential):
		writeError(w, http.StatusUnauthorized, "missing_credential", err.Error())
	case errors.Is(err, authzerrors.ErrExpired):
		writeError(w, http.StatusUnauthorized, "token_expired", err.Error())
	case errors.Is(err, authzerrors.ErrInvalidSignature):
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, authzerrors.ErrUntrustedIssuer):
		writeError(w, http.StatusUnauthorized, "untrusted_issuer", err.Error())
	case errors.Is(err, authzerrors.ErrMalformedClaims):
		writeError(w, http.StatusUnauthorized, "malformed_claims", err.Error())
	case errors.Is(err, authzerrors.ErrUnknownIdentity):
		writeError(w, http.StatusUnauthorized, "unknown_identity", err.Error())
	case errors.Is(err, authzerrors.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, authzerrors.ErrAdminProtected):
		writeError(w, http.StatusForbidden, "admin_protected", err.Error())
	case errors.Is(err, authzerrors.ErrInvalidUserID):
		writeError(w, http.StatusBadRequest, "invalid_user_id", err.Error())
	case errors.Is(err, authzerrors.ErrInvalidName),
		errors.Is(err, authzerrors.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, authzerrors.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_role", err.Error())
	case errors.Is(err, authzerrors.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "conflict", err.Error())
	case errors.Is(err, authzerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		s.logUnhandled(r, "identity-access/authorization-service", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writePartsDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, partserrors.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, partserrors.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, partserrors.ErrInvalidYear):
		writeError(w, http.StatusBadRequest, "invalid_year", err.Error())
	case errors.Is(err, partserrors.ErrInvalidPartID):
		writeError(w, http.StatusBadRequest, "invalid_part_id", err.Error())
	case errors.Is(err, partserrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, partserrors.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, partserrors.ErrPartNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		s.logUnhandled(r, "marketplace/parts-service", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writeOrderDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidItems ordererrors.InvalidItemsError
	var unavailable ordererrors.UnavailableItemsError
	switch {
	case errors.As(err, &invalidItems):
		writeJSON(w, http.StatusBadRequest, ordershttp.ErrorResponse{
			Error:          "invalid_items",
			Message:        err.Error(),
			InvalidIndexes: invalidItems.Indexes,
		})
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusConflict, ordershttp.ErrorResponse{
			Error:   "unavailable_items",
			Message: "Some parts are not available",
			PartIDs: unavailable.PartIDs,
		})
	case errors.Is(err, ordererrors.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, ordererrors.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, "invalid_phone", err.Error())
	case errors.Is(err, ordererrors.ErrInvalidIdempotencyKey):
		writeError(w, http.StatusBadRequest, "invalid_idempotency_key", err.Error())
	case errors.Is(err, ordererrors.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, ordererrors.ErrInvalidOrderID):
		writeError(w, http.StatusBadRequest, "invalid_order_id", err.Error())
	case errors.Is(err, ordererrors.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ordererrors.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ordererrors.ErrCommitFailed):
		s.logUnhandled(r, "marketplace/order-service", err)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "commit_failed", ordererrors.ErrCommitFailed.Error())
	default:
		s.logUnhandled(r, "marketplace/order-service", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) writeProfileDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profileerrors.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, "invalid_phone", err.Error())
	case errors.Is(err, profileerrors.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, profileerrors.ErrInvalidAddressID):
		writeError(w, http.StatusBadRequest, "invalid_address_id", err.Error())
	case errors.Is(err, profileerrors.ErrAddressLimitReached):
		writeError(w, http.StatusBadRequest, "address_limit_reached", err.Error())
	case errors.Is(err, profileerrors.ErrAddressNotFound),
		errors.Is(err, profileerrors.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, profileerrors.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unknown_identity", err.Error())
	default:
		s.logUnhandled(r, "identity-access/profile-service", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
