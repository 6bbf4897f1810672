package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part is a catalog listing. InStock is the only availability signal; there
// is no quantity on hand.
type Part struct {
	PartID      int64
	SellerID    int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	CarName     string
	Model       string
	Year        int
	InStock     bool
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
