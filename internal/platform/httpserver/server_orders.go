package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	ordershttp "carparts/contexts/marketplace/order-service/transport/http"
)

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "request body could not be read")
		return
	}
	if err := validatePlaceOrderBody(body); err != nil {
		if errors.Is(err, errMalformedJSON) {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	var req ordershttp.PlaceOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.orders.Handler.PlaceOrderHandler(r.Context(), actor, r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		s.writeOrderDomainError(w, r, err)
		return
	}
	status := http.StatusCreated
	if resp.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.orders.Handler.ListMyOrdersHandler(r.Context(), actor)
	if err != nil {
		s.writeOrderDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.orders.Handler.GetOrderHandler(r.Context(), actor, pathID(r))
	if err != nil {
		s.writeOrderDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	resp, err := s.orders.Handler.ListAllOrdersHandler(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		s.writeOrderDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := identityFrom(r.Context())
	var req ordershttp.UpdateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.orders.Handler.UpdateOrderStatusHandler(r.Context(), actor, pathID(r), req)
	if err != nil {
		s.writeOrderDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
