package repositories

import (
	"context"
	"errors"

	"jpashop/internal/common"
	"jpashop/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository loads orders fetch-joined with their member and delivery.
// To-one joins never multiply rows, so offset/limit paginate orders exactly.
// Items are not loaded; combine with OrderItemRepository.
type OrderRepository interface {
	LoadOrders(ctx context.Context, search models.OrderSearch, offset, limit int) ([]models.OrderHeader, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.OrderHeader, error)
}

type orderRepo struct {
	db Querier
}

func NewOrderRepo(db Querier) OrderRepository {
	return &orderRepo{db: db}
}

const orderEntityColumns = `
		SELECT o.id, o.member_id, o.delivery_id, o.order_date, o.status,
			m.id, m.name,
			d.id, d.city, d.street, d.zipcode`

// orderGraph is an order with its to-one relations materialized as entities.
type orderGraph struct {
	order    models.Order
	member   models.Member
	delivery models.Delivery
}

func (g *orderGraph) scanTargets() []interface{} {
	return []interface{}{
		&g.order.ID, &g.order.MemberID, &g.order.DeliveryID, &g.order.OrderDate, &g.order.Status,
		&g.member.ID, &g.member.Name,
		&g.delivery.ID, &g.delivery.Address.City, &g.delivery.Address.Street, &g.delivery.Address.Zipcode,
	}
}

func (g *orderGraph) header() models.OrderHeader {
	return models.OrderHeader{
		OrderID:    g.order.ID,
		MemberName: g.member.Name,
		OrderDate:  g.order.OrderDate,
		Status:     g.order.Status,
		Address:    g.delivery.Address,
	}
}

// LoadOrders issues exactly one query ordered by order id. An offset past the
// last row yields an empty slice.
func (r *orderRepo) LoadOrders(ctx context.Context, search models.OrderSearch, offset, limit int) ([]models.OrderHeader, error) {
	if err := common.ValidatePage(offset, limit); err != nil {
		return nil, err
	}

	where, args, err := orderWhere(search, nil)
	if err != nil {
		return nil, err
	}
	limitClause, args := pageClause(models.Page{Offset: offset, Limit: limit}, args)
	query := orderEntityColumns + orderJoins + where + `
		ORDER BY o.id` + limitClause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, common.WrapQueryError("load orders", err)
	}
	defer rows.Close()

	headers := []models.OrderHeader{}
	for rows.Next() {
		var g orderGraph
		if err := rows.Scan(g.scanTargets()...); err != nil {
			return nil, common.WrapQueryError("scan order", err)
		}
		headers = append(headers, g.header())
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapQueryError("load orders", err)
	}
	return headers, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (models.OrderHeader, error) {
	query := orderEntityColumns + orderJoins + `
		WHERE o.id = $1`

	var g orderGraph
	err := r.db.QueryRow(ctx, query, id).Scan(g.scanTargets()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderHeader{}, common.ErrOrderNotFound
	}
	if err != nil {
		return models.OrderHeader{}, common.WrapQueryError("get order", err)
	}
	return g.header(), nil
}
