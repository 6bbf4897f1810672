package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus maps a case-insensitive status name to its canonical value.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	for _, status := range []OrderStatus{OrderStatusPlaced, OrderStatusShipped, OrderStatusCancelled} {
		if strings.EqualFold(strings.TrimSpace(value), string(status)) {
			return status, true
		}
	}
	return "", false
}

// PartSnapshot is the read-only view of a catalog part this context needs.
type PartSnapshot struct {
	PartID   int64
	SellerID int64
	Name     string
	Price    decimal.Decimal
	InStock  bool
	ImageURL string
}

type OrderItem struct {
	ItemID   int64
	OrderID  int64
	PartID   int64
	Quantity int
	Part     *PartSnapshot
}

// LineTotal is zero when the part has since been removed from the catalog.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.Part == nil {
		return decimal.Zero
	}
	return i.Part.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Customer struct {
	UserID int64
	Name   string
	Email  string
}

// Order is created together with its items and never partially mutated;
// only Status changes after commit.
type Order struct {
	OrderID        int64
	UserID         int64
	Status         OrderStatus
	Address        string
	PhoneNumber    string
	IdempotencyKey string
	Items          []OrderItem
	Customer       *Customer
	CreatedAt      time.Time
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
