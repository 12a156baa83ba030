package models

import "github.com/google/uuid"

type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	ItemID     uuid.UUID `json:"item_id" db:"item_id"`
	OrderPrice int       `json:"order_price" db:"order_price"` // price at time of order
	Count      int       `json:"count" db:"count"`
}

type Item struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         int       `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
}
