package repositories

import (
	"context"

	"jpashop/internal/common"
	"jpashop/internal/models"

	"github.com/google/uuid"
)

// OrderProjectionRepository selects straight into the output shapes without
// materializing entities. Headers and items are loaded separately, so
// attaching items per order costs 1+N queries but keeps header pagination.
type OrderProjectionRepository interface {
	LoadHeaders(ctx context.Context, search models.OrderSearch, page *models.Page) ([]models.OrderHeader, error)
	LoadItemsForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItemView, error)
}

type orderProjectionRepo struct {
	db Querier
}

func NewOrderProjectionRepo(db Querier) OrderProjectionRepository {
	return &orderProjectionRepo{db: db}
}

const orderHeaderColumns = `
		SELECT o.id, m.name, o.order_date, o.status, d.city, d.street, d.zipcode`

// LoadHeaders returns all matching headers ordered by order id, or one page
// of them when page is non-nil.
func (r *orderProjectionRepo) LoadHeaders(ctx context.Context, search models.OrderSearch, page *models.Page) ([]models.OrderHeader, error) {
	where, args, err := orderWhere(search, nil)
	if err != nil {
		return nil, err
	}
	query := orderHeaderColumns + orderJoins + where + `
		ORDER BY o.id`
	if page != nil {
		if err := common.ValidatePage(page.Offset, page.Limit); err != nil {
			return nil, err
		}
		var limitClause string
		limitClause, args = pageClause(*page, args)
		query += limitClause
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, common.WrapQueryError("load order headers", err)
	}
	defer rows.Close()

	headers := []models.OrderHeader{}
	for rows.Next() {
		var h models.OrderHeader
		if err := rows.Scan(&h.OrderID, &h.MemberName, &h.OrderDate, &h.Status, &h.Address.City, &h.Address.Street, &h.Address.Zipcode); err != nil {
			return nil, common.WrapQueryError("scan order header", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapQueryError("load order headers", err)
	}
	return headers, nil
}

func (r *orderProjectionRepo) LoadItemsForOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItemView, error) {
	query := `
		SELECT i.name, oi.order_price, oi.count
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id = $1`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, common.WrapQueryError("load items for order", err)
	}
	defer rows.Close()

	items := []models.OrderItemView{}
	for rows.Next() {
		var item models.OrderItemView
		if err := rows.Scan(&item.ItemName, &item.OrderPrice, &item.Count); err != nil {
			return nil, common.WrapQueryError("scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapQueryError("load items for order", err)
	}
	return items, nil
}
