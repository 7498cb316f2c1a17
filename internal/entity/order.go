package entity

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Order represents a purchase order stored in the relational database.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID           int64     `bun:"id,pk,autoincrement"`
	CustomerName string    `bun:"customer_name,notnull"`
	Product      string    `bun:"product,notnull"`
	Quantity     int       `bun:"quantity,notnull"`
	Price        float64   `bun:"price,notnull"`
	OrderDate    time.Time `bun:"order_date,notnull"`
}

// Validate checks every field invariant and reports all violations at once.
func (o *Order) Validate() error {
	var verr ValidationError

	if strings.TrimSpace(o.CustomerName) == "" {
		verr.Add("customerName", "customer name cannot be blank")
	}
	if strings.TrimSpace(o.Product) == "" {
		verr.Add("product", "product cannot be blank")
	}
	if o.Quantity < 1 {
		verr.Add("quantity", "quantity must be at least 1")
	}
	if o.Price < 0 {
		verr.Add("price", "price must be non-negative")
	}
	if o.OrderDate.IsZero() {
		verr.Add("orderDate", "order date cannot be null")
	}

	return verr.OrNil()
}

// Replace copies every mutable field from src, keeping the identifier. A zero
// OrderDate in src keeps the stored date.
func (o *Order) Replace(src *Order) {
	o.CustomerName = src.CustomerName
	o.Product = src.Product
	o.Quantity = src.Quantity
	o.Price = src.Price
	if !src.OrderDate.IsZero() {
		o.OrderDate = src.OrderDate
	}
}
