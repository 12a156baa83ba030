package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"jpashop/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockOrderCache struct {
	mock.Mock
}

func (m *MockOrderCache) GetOrderPage(ctx context.Context, key string) ([]models.OrderView, error) {
	return nil, nil
}

func (m *MockOrderCache) SetOrderPage(ctx context.Context, key string, views []models.OrderView) error {
	return nil
}

func (m *MockOrderCache) InvalidateOrders(ctx context.Context) error {
	return nil
}

func (m *MockOrderCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newHealthServer(db Pinger, cache *MockOrderCache) *echo.Echo {
	e := echo.New()
	if cache == nil {
		NewHealthHandlers(db, nil).RegisterRoutes(e)
	} else {
		NewHealthHandlers(db, cache).RegisterRoutes(e)
	}
	return e
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		dbErr    error
		cache    bool
		cacheErr error
		code     int
		status   string
	}{
		{name: "all healthy", cache: true, code: http.StatusOK, status: `"status":"healthy"`},
		{name: "cache disabled", code: http.StatusOK, status: `"cache":"disabled"`},
		{name: "cache down", cache: true, cacheErr: errors.New("dial tcp"), code: http.StatusOK, status: `"status":"degraded"`},
		{name: "database down", dbErr: errors.New("dial tcp"), cache: true, code: http.StatusServiceUnavailable, status: `"status":"unhealthy"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockPinger)
			db.On("Ping", mock.Anything).Return(tt.dbErr)
			var cache *MockOrderCache
			if tt.cache {
				cache = new(MockOrderCache)
				cache.On("Ping", mock.Anything).Return(tt.cacheErr)
			}

			rec := serve(newHealthServer(db, cache), "/health")

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.status)
		})
	}
}

func TestReadinessCheck(t *testing.T) {
	db := new(MockPinger)
	db.On("Ping", mock.Anything).Return(errors.New("dial tcp")).Once()
	db.On("Ping", mock.Anything).Return(nil).Once()
	e := newHealthServer(db, nil)

	assert.Equal(t, http.StatusServiceUnavailable, serve(e, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, serve(e, "/health/ready").Code)
	assert.Equal(t, http.StatusOK, serve(e, "/health/live").Code)
}
