package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderHeader is the to-one part of an order aggregate, flattened into scalar
// and value fields only.
type OrderHeader struct {
	OrderID    uuid.UUID   `json:"order_id"`
	MemberName string      `json:"member_name"`
	OrderDate  time.Time   `json:"order_date"`
	Status     OrderStatus `json:"status"`
	Address    Address     `json:"address"`
}

type OrderItemView struct {
	ItemName   string `json:"item_name"`
	OrderPrice int    `json:"order_price"`
	Count      int    `json:"count"`
}

// OrderItemRow is an OrderItemView still tagged with its owning order, as
// returned by the batched item query before grouping.
type OrderItemRow struct {
	OrderID uuid.UUID
	OrderItemView
}

// OrderFlatRow is one row of the fully denormalized order/item join. Header
// columns repeat on every item row of the same order.
type OrderFlatRow struct {
	OrderHeader
	OrderItemView
}

// OrderView is an order header with its items attached. Values are built once
// by NewOrderView and are not mutated afterwards.
type OrderView struct {
	OrderHeader
	OrderItems []OrderItemView `json:"order_items"`
}

// NewOrderView copies items so the view never aliases a loader's buffers.
// A nil or empty items slice becomes an empty, non-nil slice.
func NewOrderView(header OrderHeader, items []OrderItemView) OrderView {
	copied := make([]OrderItemView, len(items))
	copy(copied, items)
	return OrderView{OrderHeader: header, OrderItems: copied}
}

// HeadersOnly wraps headers as views without items.
func HeadersOnly(headers []OrderHeader) []OrderView {
	views := make([]OrderView, 0, len(headers))
	for _, h := range headers {
		views = append(views, NewOrderView(h, nil))
	}
	return views
}

func OrderIDs(headers []OrderHeader) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.OrderID)
	}
	return ids
}
