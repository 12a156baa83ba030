package caching

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"jpashop/internal/models"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() []models.OrderView {
	header := models.OrderHeader{
		OrderID:    uuid.New(),
		MemberName: "userA",
		OrderDate:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:     models.OrderStatusOrdered,
		Address:    models.NewAddress("Seoul", "1", "1111"),
	}
	return []models.OrderView{
		models.NewOrderView(header, []models.OrderItemView{
			{ItemName: "JPA1 BOOK", OrderPrice: 10000, Count: 1},
			{ItemName: "JPA2 BOOK", OrderPrice: 20000, Count: 2},
		}),
	}
}

func TestOrderPageKey(t *testing.T) {
	name := "user A"
	status := models.OrderStatusCanceled

	assert.Equal(t, "jpashop:orders:flat:*:*:all", OrderPageKey("flat", models.OrderSearch{}, nil))
	assert.Equal(t, "jpashop:orders:to-one-join:CANCELED:user+A:10:20",
		OrderPageKey("to-one-join", models.OrderSearch{MemberName: &name, Status: &status}, &models.Page{Offset: 10, Limit: 20}))
}

func TestGetOrderPage_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, time.Minute)

	mock.ExpectGet("jpashop:orders:flat:*:*:all").RedisNil()

	views, err := cache.GetOrderPage(context.Background(), "jpashop:orders:flat:*:*:all")
	assert.NoError(t, err)
	assert.Nil(t, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderPage_Hit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, time.Minute)
	page := samplePage()
	data, err := json.Marshal(page)
	require.NoError(t, err)

	mock.ExpectGet("k").SetVal(string(data))

	views, err := cache.GetOrderPage(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, page, views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderPage_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, time.Minute)

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))

	views, err := cache.GetOrderPage(context.Background(), "k")
	assert.Error(t, err)
	assert.Nil(t, views)
}

func TestSetOrderPage(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, 30*time.Second)
	page := samplePage()
	data, err := json.Marshal(page)
	require.NoError(t, err)

	mock.ExpectSet("k", data, 30*time.Second).SetVal("OK")

	assert.NoError(t, cache.SetOrderPage(context.Background(), "k", page))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOrderPage_DisabledByZeroTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, 0)

	assert.NoError(t, cache.SetOrderPage(context.Background(), "k", samplePage()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateOrders(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, time.Minute)

	mock.ExpectKeys("jpashop:orders:*").SetVal([]string{"jpashop:orders:a", "jpashop:orders:b"})
	mock.ExpectDel("jpashop:orders:a", "jpashop:orders:b").SetVal(2)

	assert.NoError(t, cache.InvalidateOrders(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateOrders_NothingCached(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisOrderCache(client, time.Minute)

	mock.ExpectKeys("jpashop:orders:*").SetVal([]string{})

	assert.NoError(t, cache.InvalidateOrders(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
