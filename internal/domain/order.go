package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the closed set of order states. Any value outside the
// enum is rejected; within the enum every transition is legal.
type OrderStatus string

const (
	StatusNotProcess OrderStatus = "Not Process"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every valid status value
var OrderStatuses = []OrderStatus{
	StatusNotProcess,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether the status belongs to the closed enum
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNotProcess, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents a completed checkout. An order is created only as
// the terminal step of a successful payment transaction and is never
// deleted; only its status changes afterwards.
type Order struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Products  []uuid.UUID     `json:"products" db:"products"`
	Buyer     uuid.UUID       `json:"buyer" db:"buyer_id"`
	Payment   json.RawMessage `json:"payment" db:"payment"`
	Status    OrderStatus     `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
