package httptransport

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error          string  `json:"error"`
	Message        string  `json:"message"`
	PartIDs        []int64 `json:"partIds,omitempty"`
	InvalidIndexes []int   `json:"invalidIndexes,omitempty"`
}

// OrderItemRequest keeps numbers raw so one malformed entry is reported by
// index instead of failing the whole decode.
type OrderItemRequest struct {
	PartID   json.Number `json:"partId"`
	Quantity json.Number `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items          []OrderItemRequest `json:"items"`
	Address        string             `json:"address"`
	PhoneNumber    string             `json:"phoneNumber"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type PartDTO struct {
	ID       int64           `json:"id"`
	SellerID int64           `json:"sellerId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	InStock  bool            `json:"inStock"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

type OrderItemDTO struct {
	ID       int64    `json:"id"`
	PartID   int64    `json:"partId"`
	Quantity int      `json:"quantity"`
	Part     *PartDTO `json:"part"`
}

type CustomerDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderDTO struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	Status         string          `json:"status"`
	Address        string          `json:"address"`
	PhoneNumber    string          `json:"phoneNumber"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	Items          []OrderItemDTO  `json:"items"`
	Total          decimal.Decimal `json:"total"`
	User           *CustomerDTO    `json:"user,omitempty"`
}

type PlaceOrderResponse struct {
	Message  string   `json:"message"`
	Order    OrderDTO `json:"order"`
	Replayed bool     `json:"replayed"`
}

type ListOrdersResponse struct {
	Orders []OrderDTO `json:"orders"`
}

type OrderResponse struct {
	Message string   `json:"message,omitempty"`
	Order   OrderDTO `json:"order"`
}
