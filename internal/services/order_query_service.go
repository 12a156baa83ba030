package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"jpashop/internal/caching"
	"jpashop/internal/common"
	"jpashop/internal/metrics"
	"jpashop/internal/models"
	"jpashop/internal/repositories"

	"github.com/google/uuid"
)

// OrderQueryServiceInterface is the read path consumed by the API layer.
type OrderQueryServiceInterface interface {
	FindOrders(ctx context.Context, strategy Strategy, search models.OrderSearch, page *models.Page) ([]models.OrderView, error)
	FindOrderSummaries(ctx context.Context, search models.OrderSearch, page *models.Page) ([]models.OrderHeader, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (models.OrderView, error)
}

// OrderQueryConfig holds the explicit loader parameters.
type OrderQueryConfig struct {
	ItemBatchSize    int
	QueryTimeout     time.Duration
	DefaultPageLimit int
}

type orderQueryService struct {
	db      repositories.DB
	cfg     OrderQueryConfig
	cache   caching.OrderCache
	metrics *metrics.LoaderMetrics
}

// NewOrderQueryService creates the order read service. cache and m may be nil.
func NewOrderQueryService(db repositories.DB, cfg OrderQueryConfig, cache caching.OrderCache, m *metrics.LoaderMetrics) OrderQueryServiceInterface {
	return &orderQueryService{
		db:      db,
		cfg:     cfg,
		cache:   cache,
		metrics: m,
	}
}

// loaders are bound to one session for the duration of a call.
type loaders struct {
	orders     repositories.OrderRepository
	items      repositories.OrderItemRepository
	projection repositories.OrderProjectionRepository
	flat       repositories.OrderFlatRepository
}

func (s *orderQueryService) loadersFor(session *repositories.Session) loaders {
	return loaders{
		orders:     repositories.NewOrderRepo(session),
		items:      repositories.NewOrderItemRepo(session, s.cfg.ItemBatchSize),
		projection: repositories.NewOrderProjectionRepo(session),
		flat:       repositories.NewOrderFlatRepo(session),
	}
}

// withSession runs fn inside one read-only session under the query timeout.
// fn's result is discarded on any error, including a failed commit.
func (s *orderQueryService) withSession(ctx context.Context, label string, fn func(ctx context.Context, l loaders) error) error {
	if s.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	session, err := repositories.OpenSession(ctx, s.db)
	if err != nil {
		s.metrics.ObserveLoad(label, 0, time.Since(start), err)
		return err
	}
	defer session.Close(context.WithoutCancel(ctx))

	err = fn(ctx, s.loadersFor(session))
	if err == nil {
		err = session.Commit(ctx)
	}
	s.metrics.ObserveLoad(label, session.QueryCount(), time.Since(start), err)
	return err
}

// FindOrders loads orders with the chosen strategy. A nil page means the
// default page for paginated strategies and is required for the flat one.
func (s *orderQueryService) FindOrders(ctx context.Context, strategy Strategy, search models.OrderSearch, page *models.Page) ([]models.OrderView, error) {
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}
	if page != nil {
		if !strategy.Paginated() {
			return nil, fmt.Errorf("%w: strategy %s does not support pagination", common.ErrInvalidPagination, strategy)
		}
		if err := common.ValidatePage(page.Offset, page.Limit); err != nil {
			return nil, err
		}
	} else if strategy.Paginated() && strategy != StrategyPerOrderProjection {
		page = &models.Page{Offset: 0, Limit: s.defaultLimit()}
	}

	key := caching.OrderPageKey(string(strategy), search, page)
	if views := s.cachedPage(ctx, key); views != nil {
		s.metrics.ObserveCacheHit(string(strategy))
		return views, nil
	}

	var views []models.OrderView
	err = s.withSession(ctx, string(strategy), func(ctx context.Context, l loaders) error {
		var err error
		views, err = s.load(ctx, l, strategy, search, page)
		return err
	})
	if err != nil {
		log.Printf("WARN: order load failed (strategy=%s): %v", strategy, err)
		return nil, err
	}

	s.storePage(ctx, key, views)
	return views, nil
}

func (s *orderQueryService) load(ctx context.Context, l loaders, strategy Strategy, search models.OrderSearch, page *models.Page) ([]models.OrderView, error) {
	switch strategy {
	case StrategyToOneJoin:
		headers, err := l.orders.LoadOrders(ctx, search, page.Offset, page.Limit)
		if err != nil {
			return nil, err
		}
		return models.HeadersOnly(headers), nil

	case StrategyToOneJoinPlusBatch:
		headers, err := l.orders.LoadOrders(ctx, search, page.Offset, page.Limit)
		if err != nil {
			return nil, err
		}
		itemsByOrder, err := l.items.LoadItemsByOrderIDs(ctx, models.OrderIDs(headers))
		if err != nil {
			return nil, err
		}
		return repositories.AttachItems(headers, itemsByOrder), nil

	case StrategyPerOrderProjection:
		headers, err := l.projection.LoadHeaders(ctx, search, page)
		if err != nil {
			return nil, err
		}
		views := make([]models.OrderView, 0, len(headers))
		for _, h := range headers {
			items, err := l.projection.LoadItemsForOrder(ctx, h.OrderID)
			if err != nil {
				return nil, err
			}
			views = append(views, models.NewOrderView(h, items))
		}
		return views, nil

	case StrategyFlatAggregated:
		return l.flat.LoadFlatAndAggregate(ctx, search, page)
	}
	return nil, fmt.Errorf("unknown order loading strategy %q", strategy)
}

// FindOrderSummaries projects headers without items in one query.
func (s *orderQueryService) FindOrderSummaries(ctx context.Context, search models.OrderSearch, page *models.Page) ([]models.OrderHeader, error) {
	var headers []models.OrderHeader
	err := s.withSession(ctx, "summary", func(ctx context.Context, l loaders) error {
		var err error
		headers, err = l.projection.LoadHeaders(ctx, search, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return headers, nil
}

// FindOrder loads one aggregate, returning common.ErrOrderNotFound when the
// order does not exist.
func (s *orderQueryService) FindOrder(ctx context.Context, orderID uuid.UUID) (models.OrderView, error) {
	var view models.OrderView
	err := s.withSession(ctx, "single", func(ctx context.Context, l loaders) error {
		header, err := l.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		itemsByOrder, err := l.items.LoadItemsByOrderIDs(ctx, []uuid.UUID{orderID})
		if err != nil {
			return err
		}
		view = models.NewOrderView(header, itemsByOrder[orderID])
		return nil
	})
	if err != nil {
		return models.OrderView{}, err
	}
	return view, nil
}

func (s *orderQueryService) defaultLimit() int {
	if s.cfg.DefaultPageLimit > 0 {
		return s.cfg.DefaultPageLimit
	}
	return 100
}

func (s *orderQueryService) cachedPage(ctx context.Context, key string) []models.OrderView {
	if s.cache == nil {
		return nil
	}
	views, err := s.cache.GetOrderPage(ctx, key)
	if err != nil {
		log.Printf("WARN: order cache read failed for %s: %v", key, err)
		return nil
	}
	return views
}

func (s *orderQueryService) storePage(ctx context.Context, key string, views []models.OrderView) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOrderPage(ctx, key, views); err != nil {
		log.Printf("WARN: order cache write failed for %s: %v", key, err)
	}
}
