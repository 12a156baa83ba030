package background

import (
	"context"
	"log"
	"sync"
	"time"

	"jpashop/internal/caching"
	"jpashop/internal/models"
	"jpashop/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const orderCacheWarmJob = "order-cache-warm"

// JobScheduler runs periodic maintenance for the order read path
type JobScheduler struct {
	scheduler gocron.Scheduler
	orderSvc  services.OrderQueryServiceInterface
	cache     caching.OrderCache
	pageLimit int
	jobs      map[string]gocron.Job
	mu        sync.Mutex
}

// NewJobScheduler creates a scheduler that rewarms the first pageLimit orders
// of each strategy every warmInterval.
func NewJobScheduler(orderSvc services.OrderQueryServiceInterface, cache caching.OrderCache, warmInterval time.Duration, pageLimit int) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		orderSvc:  orderSvc,
		cache:     cache,
		pageLimit: pageLimit,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.addJob(orderCacheWarmJob, warmInterval, js.WarmOrderCache, context.Background()); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// WarmOrderCache drops every cached order page, then reloads the first page
// of each strategy so the first reads after a write hit the cache. The flat
// strategy cannot paginate and is warmed whole.
func (js *JobScheduler) WarmOrderCache(ctx context.Context) error {
	if err := js.cache.InvalidateOrders(ctx); err != nil {
		log.Printf("WARN: order cache invalidation failed: %v", err)
		return err
	}

	// Limit to 2 concurrent loads
	semaphore := make(chan struct{}, 2)
	var wg sync.WaitGroup
	var mu sync.Mutex
	warmed := 0

	for _, strategy := range services.Strategies() {
		wg.Add(1)
		go func(strategy services.Strategy) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if _, err := js.orderSvc.FindOrders(ctx, strategy, models.OrderSearch{}, js.warmPage(strategy)); err != nil {
				log.Printf("WARN: failed to warm order cache for %s: %v", strategy, err)
				return
			}
			mu.Lock()
			warmed++
			mu.Unlock()
		}(strategy)
	}

	wg.Wait()
	log.Printf("Warmed order cache for %d strategies", warmed)
	return nil
}

func (js *JobScheduler) warmPage(strategy services.Strategy) *models.Page {
	if !strategy.Paginated() {
		return nil
	}
	return &models.Page{Offset: 0, Limit: js.pageLimit}
}

// addJob adds a job that runs fn every interval. A job never overlaps itself.
func (js *JobScheduler) addJob(name string, interval time.Duration, fn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn, params...),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}
