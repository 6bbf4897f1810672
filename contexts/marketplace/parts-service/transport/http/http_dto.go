package httptransport

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ListPartsRequest struct {
	CarName  string
	Model    string
	Category string
	Year     string
}

// PartRequest is shared by create and partial update. Price accepts a JSON
// number or a numeric string.
type PartRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"number"`
	Category    *string          `json:"category,omitempty"`
	CarName     *string          `json:"carName,omitempty"`
	Model       *string          `json:"model,omitempty"`
	Year        *json.Number     `json:"year,omitempty" swaggertype:"integer"`
	InStock     *bool            `json:"inStock,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
}

type PartDTO struct {
	ID          int64           `json:"id"`
	SellerID    int64           `json:"sellerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Category    string          `json:"category"`
	CarName     string          `json:"carName"`
	Model       string          `json:"model"`
	Year        int             `json:"year"`
	InStock     bool            `json:"inStock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ListPartsResponse struct {
	Parts []PartDTO `json:"parts"`
}

type PartResponse struct {
	Message string  `json:"message,omitempty"`
	Part    PartDTO `json:"part"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
