package repositories

import (
	"context"
	"fmt"
	"strings"

	"jpashop/internal/common"
	"jpashop/internal/models"

	"github.com/google/uuid"
)

// MaxBindParameters is the PostgreSQL limit on placeholders per statement.
const MaxBindParameters = 65535

// OrderItemRepository batch-loads order item collections for many orders.
type OrderItemRepository interface {
	LoadItemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItemView, error)
}

type orderItemRepo struct {
	db        Querier
	chunkSize int
}

// NewOrderItemRepo returns a loader that puts at most chunkSize ids in one
// IN clause.
func NewOrderItemRepo(db Querier, chunkSize int) OrderItemRepository {
	return &orderItemRepo{db: db, chunkSize: chunkSize}
}

const orderItemsByOrderQuery = `
		SELECT oi.order_id, i.name, oi.order_price, oi.count
		FROM order_items oi
		JOIN items i ON i.id = oi.item_id
		WHERE oi.order_id IN (%s)`

// LoadItemsByOrderIDs issues ceil(len(unique ids)/chunkSize) queries, one per
// chunk, sequentially on the same session. Rows are grouped by order id in
// the order the store returned them. Orders without items have no key in the
// result; callers treat a missing key as an empty collection.
func (r *orderItemRepo) LoadItemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItemView, error) {
	ids := uniqueIDs(orderIDs)
	chunks, err := chunkIDs(ids, r.chunkSize)
	if err != nil {
		return nil, err
	}

	var rows []models.OrderItemRow
	for _, chunk := range chunks {
		chunkRows, err := r.loadChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		rows = append(rows, chunkRows...)
	}
	return GroupItemsByOrder(rows), nil
}

func (r *orderItemRepo) loadChunk(ctx context.Context, chunk []uuid.UUID) ([]models.OrderItemRow, error) {
	placeholders := make([]string, len(chunk))
	args := make([]interface{}, len(chunk))
	for i, id := range chunk {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(orderItemsByOrderQuery, strings.Join(placeholders, ", "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, common.WrapQueryError("load order items", err)
	}
	defer rows.Close()

	var items []models.OrderItemRow
	for rows.Next() {
		var item models.OrderItemRow
		if err := rows.Scan(&item.OrderID, &item.ItemName, &item.OrderPrice, &item.Count); err != nil {
			return nil, common.WrapQueryError("scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapQueryError("load order items", err)
	}
	return items, nil
}

// GroupItemsByOrder groups item rows by their order id, keeping row order
// within each group.
func GroupItemsByOrder(rows []models.OrderItemRow) map[uuid.UUID][]models.OrderItemView {
	grouped := make(map[uuid.UUID][]models.OrderItemView)
	for _, row := range rows {
		grouped[row.OrderID] = append(grouped[row.OrderID], row.OrderItemView)
	}
	return grouped
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// chunkIDs splits ids into consecutive chunks of at most size. It never drops
// an id: if the chunks do not add back up to the input it fails instead.
func chunkIDs(ids []uuid.UUID, size int) ([][]uuid.UUID, error) {
	if size <= 0 || size > MaxBindParameters {
		return nil, fmt.Errorf("%w: chunk size %d outside 1..%d", common.ErrChunking, size, MaxBindParameters)
	}

	chunks := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}

	total := 0
	for _, c := range chunks {
		if len(c) == 0 || len(c) > size {
			return nil, fmt.Errorf("%w: chunk of %d ids for size %d", common.ErrChunking, len(c), size)
		}
		total += len(c)
	}
	if total != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d ids chunked", common.ErrChunking, total, len(ids))
	}
	return chunks, nil
}

// AttachItems merges batch-loaded items onto headers by order id, keeping the
// header order. Headers without an entry get an empty item list.
func AttachItems(headers []models.OrderHeader, itemsByOrder map[uuid.UUID][]models.OrderItemView) []models.OrderView {
	views := make([]models.OrderView, 0, len(headers))
	for _, h := range headers {
		views = append(views, models.NewOrderView(h, itemsByOrder[h.OrderID]))
	}
	return views
}
