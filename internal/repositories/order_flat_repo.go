package repositories

import (
	"context"
	"fmt"

	"jpashop/internal/common"
	"jpashop/internal/models"

	"github.com/google/uuid"
)

// OrderFlatRepository loads the whole aggregate in one denormalized join and
// regroups it in memory. The join is inner all the way down, so orders with
// no items are not returned. A row limit would cut an order's item rows
// rather than whole orders, so this loader cannot paginate.
type OrderFlatRepository interface {
	LoadFlat(ctx context.Context, search models.OrderSearch) ([]models.OrderFlatRow, error)
	LoadFlatAndAggregate(ctx context.Context, search models.OrderSearch, page *models.Page) ([]models.OrderView, error)
}

type orderFlatRepo struct {
	db Querier
}

func NewOrderFlatRepo(db Querier) OrderFlatRepository {
	return &orderFlatRepo{db: db}
}

const orderFlatColumns = `
		SELECT o.id, m.name, o.order_date, o.status, d.city, d.street, d.zipcode,
			i.name, oi.order_price, oi.count`

const orderFlatJoins = orderJoins + `
		JOIN order_items oi ON oi.order_id = o.id
		JOIN items i ON i.id = oi.item_id`

func (r *orderFlatRepo) LoadFlat(ctx context.Context, search models.OrderSearch) ([]models.OrderFlatRow, error) {
	where, args, err := orderWhere(search, nil)
	if err != nil {
		return nil, err
	}
	query := orderFlatColumns + orderFlatJoins + where + `
		ORDER BY o.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, common.WrapQueryError("load flat orders", err)
	}
	defer rows.Close()

	var flat []models.OrderFlatRow
	for rows.Next() {
		var row models.OrderFlatRow
		if err := rows.Scan(
			&row.OrderID, &row.MemberName, &row.OrderDate, &row.Status,
			&row.Address.City, &row.Address.Street, &row.Address.Zipcode,
			&row.ItemName, &row.OrderPrice, &row.Count,
		); err != nil {
			return nil, common.WrapQueryError("scan flat order", err)
		}
		flat = append(flat, row)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapQueryError("load flat orders", err)
	}
	return flat, nil
}

// LoadFlatAndAggregate rejects any page with common.ErrInvalidPagination.
func (r *orderFlatRepo) LoadFlatAndAggregate(ctx context.Context, search models.OrderSearch, page *models.Page) ([]models.OrderView, error) {
	if page != nil {
		return nil, fmt.Errorf("%w: flat aggregation cannot paginate", common.ErrInvalidPagination)
	}
	flat, err := r.LoadFlat(ctx, search)
	if err != nil {
		return nil, err
	}
	return AggregateFlatRows(flat), nil
}

// AggregateFlatRows folds flat rows back into nested orders in one pass.
// Orders appear in first-seen order; rows of different orders may be
// interleaved arbitrarily.
func AggregateFlatRows(rows []models.OrderFlatRow) []models.OrderView {
	type building struct {
		header models.OrderHeader
		items  []models.OrderItemView
	}

	index := make(map[uuid.UUID]int)
	var orders []*building
	for _, row := range rows {
		i, ok := index[row.OrderID]
		if !ok {
			i = len(orders)
			index[row.OrderID] = i
			orders = append(orders, &building{header: row.OrderHeader})
		}
		orders[i].items = append(orders[i].items, row.OrderItemView)
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, models.NewOrderView(o.header, o.items))
	}
	return views
}
