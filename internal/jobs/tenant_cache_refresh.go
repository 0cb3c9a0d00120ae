package jobs

import (
	"context"
	"log"
	"time"

	"cvforge/internal/caching"
	"cvforge/internal/repositories"
	"cvforge/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// TenantCacheRefresher periodically re-reads active tenants and rewrites
// the resolver cache, so in-flight requests keep serving cached branding
// while the refresh runs in the background.
type TenantCacheRefresher struct {
	scheduler  gocron.Scheduler
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
	interval   time.Duration
}

func NewTenantCacheRefresher(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, interval time.Duration) (*TenantCacheRefresher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if interval <= 0 {
		interval = 30 * time.Second
	}

	r := &TenantCacheRefresher{
		scheduler:  scheduler,
		tenantRepo: tenantRepo,
		cacheSvc:   cacheSvc,
		interval:   interval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.refreshTenants, context.Background()),
		gocron.WithName("tenant-cache-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Start starts the refresh scheduler.
func (r *TenantCacheRefresher) Start() {
	log.Printf("Starting tenant cache refresher (every %s)", r.interval)
	r.scheduler.Start()
}

// Stop stops the refresh scheduler.
func (r *TenantCacheRefresher) Stop() error {
	log.Printf("Stopping tenant cache refresher")
	return r.scheduler.Shutdown()
}

func (r *TenantCacheRefresher) refreshTenants(ctx context.Context) {
	tenants, err := r.tenantRepo.ListActive(ctx)
	if err != nil {
		log.Printf("WARN: tenant cache refresh skipped: %v", err)
		return
	}

	refreshed := 0
	for _, tenant := range tenants {
		if err := r.cacheSvc.SetTenant(ctx, tenant, services.TenantCacheTTL); err != nil {
			log.Printf("WARN: failed to refresh cache for tenant %q: %v", tenant.Subdomain, err)
			continue
		}
		refreshed++
	}
	if refreshed > 0 {
		log.Printf("INFO: refreshed %d tenant cache entries", refreshed)
	}
}
