package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusOrdered  OrderStatus = "ORDERED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// ParseOrderStatus accepts the status name in any letter case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderStatusOrdered:
		return OrderStatusOrdered, nil
	case OrderStatusCanceled:
		return OrderStatusCanceled, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) Valid() bool {
	return s == OrderStatusOrdered || s == OrderStatusCanceled
}

// Order is the aggregate root. Its relations are held as foreign keys only;
// loaders resolve them eagerly inside their own queries.
type Order struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	MemberID   uuid.UUID   `json:"member_id" db:"member_id"`
	DeliveryID uuid.UUID   `json:"delivery_id" db:"delivery_id"`
	OrderDate  time.Time   `json:"order_date" db:"order_date"`
	Status     OrderStatus `json:"status" db:"status"`
}

type Member struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type Delivery struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Address Address   `json:"address"`
}

// Address is a value object embedded in deliveries. It has no identity and is
// always copied by value.
type Address struct {
	City    string `json:"city" db:"city"`
	Street  string `json:"street" db:"street"`
	Zipcode string `json:"zipcode" db:"zipcode"`
}

func NewAddress(city, street, zipcode string) Address {
	return Address{City: city, Street: street, Zipcode: zipcode}
}
