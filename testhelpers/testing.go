package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"jpashop/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and skips the test when it is
// unset, so store-backed tests only run where a database is provided.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	CreateSchema(t, db)
	return db
}

const schema = `
	DROP TABLE IF EXISTS order_items, orders, items, deliveries, members;
	CREATE TABLE members (id UUID PRIMARY KEY, name TEXT NOT NULL);
	CREATE TABLE deliveries (id UUID PRIMARY KEY, city TEXT, street TEXT, zipcode TEXT);
	CREATE TABLE items (id UUID PRIMARY KEY, name TEXT NOT NULL, price INT NOT NULL, stock_quantity INT NOT NULL);
	CREATE TABLE orders (
		id UUID PRIMARY KEY,
		member_id UUID NOT NULL REFERENCES members(id),
		delivery_id UUID NOT NULL UNIQUE REFERENCES deliveries(id),
		order_date TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL
	);
	CREATE TABLE order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		item_id UUID NOT NULL REFERENCES items(id),
		order_price INT NOT NULL,
		count INT NOT NULL CHECK (count >= 1)
	);
`

// CreateSchema recreates the order aggregate tables.
func CreateSchema(t *testing.T, db *TestDB) {
	t.Helper()

	if _, err := db.Pool.Exec(context.Background(), schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
}

// SeedOrder inserts the member, delivery, items and order rows of fixture.
func SeedOrder(t *testing.T, db *TestDB, fixture OrderFixture) {
	t.Helper()

	ctx := context.Background()
	h := fixture.Header
	statements := []struct {
		query string
		args  []interface{}
	}{
		{`INSERT INTO members (id, name) VALUES ($1, $2)`, []interface{}{fixture.MemberID, h.MemberName}},
		{`INSERT INTO deliveries (id, city, street, zipcode) VALUES ($1, $2, $3, $4)`,
			[]interface{}{fixture.DeliveryID, h.Address.City, h.Address.Street, h.Address.Zipcode}},
		{`INSERT INTO orders (id, member_id, delivery_id, order_date, status) VALUES ($1, $2, $3, $4, $5)`,
			[]interface{}{h.OrderID, fixture.MemberID, fixture.DeliveryID, h.OrderDate, string(h.Status)}},
	}
	for _, s := range statements {
		if _, err := db.Pool.Exec(ctx, s.query, s.args...); err != nil {
			t.Fatalf("Failed to seed order: %v", err)
		}
	}

	for _, item := range fixture.Items {
		itemID := uuid.New()
		if _, err := db.Pool.Exec(ctx, `INSERT INTO items (id, name, price, stock_quantity) VALUES ($1, $2, $3, $4)`,
			itemID, item.ItemName, item.OrderPrice, 100); err != nil {
			t.Fatalf("Failed to seed item: %v", err)
		}
		if _, err := db.Pool.Exec(ctx, `INSERT INTO order_items (id, order_id, item_id, order_price, count) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), h.OrderID, itemID, item.OrderPrice, item.Count); err != nil {
			t.Fatalf("Failed to seed order item: %v", err)
		}
	}
}

// OrderFixture describes one order aggregate for mocks and seeding.
type OrderFixture struct {
	Header     models.OrderHeader
	MemberID   uuid.UUID
	DeliveryID uuid.UUID
	Items      []models.OrderItemView
}

var baseOrderDate = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// NewOrderFixture builds an ORDERED order for member with the given items.
func NewOrderFixture(member string, items ...models.OrderItemView) OrderFixture {
	return OrderFixture{
		Header: models.OrderHeader{
			OrderID:    uuid.New(),
			MemberName: member,
			OrderDate:  baseOrderDate,
			Status:     models.OrderStatusOrdered,
			Address:    models.NewAddress("Seoul", "Teheran-ro "+member, "06236"),
		},
		MemberID:   uuid.New(),
		DeliveryID: uuid.New(),
		Items:      items,
	}
}

func Item(name string, price, count int) models.OrderItemView {
	return models.OrderItemView{ItemName: name, OrderPrice: price, Count: count}
}

// View is the aggregate the loaders are expected to return for f.
func (f OrderFixture) View() models.OrderView {
	return models.NewOrderView(f.Header, f.Items)
}
