package entity

import (
	"time"
)

// OrderStatus represents order lifecycle state
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusExecuted  OrderStatus = "EXECUTED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// IsTerminal returns true once no further transition is permitted
func (s OrderStatus) IsTerminal() bool {
	return s == StatusExecuted || s == StatusCancelled
}

// Order represents a trading order tracked through its lifecycle
type Order struct {
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	Quantity  float64     `json:"quantity"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsPending returns true while the order can still be executed or cancelled
func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}
