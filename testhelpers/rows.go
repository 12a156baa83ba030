package testhelpers

import (
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

// EntityRows returns the to-one fetch join result for orders.
func EntityRows(orders ...OrderFixture) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"order_id", "member_id", "delivery_id", "order_date", "status",
		"member_pk", "member_name",
		"delivery_pk", "city", "street", "zipcode",
	})
	for _, o := range orders {
		h := o.Header
		rows.AddRow(h.OrderID, o.MemberID, o.DeliveryID, h.OrderDate, h.Status,
			o.MemberID, h.MemberName,
			o.DeliveryID, h.Address.City, h.Address.Street, h.Address.Zipcode)
	}
	return rows
}

// HeaderRows returns the header projection result for orders.
func HeaderRows(orders ...OrderFixture) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"order_id", "member_name", "order_date", "status", "city", "street", "zipcode"})
	for _, o := range orders {
		h := o.Header
		rows.AddRow(h.OrderID, h.MemberName, h.OrderDate, h.Status, h.Address.City, h.Address.Street, h.Address.Zipcode)
	}
	return rows
}

// BatchItemRows returns the batched item query result for orders.
func BatchItemRows(orders ...OrderFixture) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"order_id", "item_name", "order_price", "count"})
	for _, o := range orders {
		for _, item := range o.Items {
			rows.AddRow(o.Header.OrderID, item.ItemName, item.OrderPrice, item.Count)
		}
	}
	return rows
}

// OrderItemRows returns the per-order item projection result for o.
func OrderItemRows(o OrderFixture) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"item_name", "order_price", "count"})
	for _, item := range o.Items {
		rows.AddRow(item.ItemName, item.OrderPrice, item.Count)
	}
	return rows
}

// FlatRows returns the denormalized join result for orders, one row per
// item. Orders without items contribute no rows, as with an inner join.
func FlatRows(orders ...OrderFixture) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"order_id", "member_name", "order_date", "status", "city", "street", "zipcode",
		"item_name", "order_price", "count",
	})
	for _, o := range orders {
		h := o.Header
		for _, item := range o.Items {
			rows.AddRow(h.OrderID, h.MemberName, h.OrderDate, h.Status, h.Address.City, h.Address.Street, h.Address.Zipcode,
				item.ItemName, item.OrderPrice, item.Count)
		}
	}
	return rows
}
