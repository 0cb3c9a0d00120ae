package services

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"cvforge/internal/caching"
	"cvforge/internal/common"
	"cvforge/internal/config"
	"cvforge/internal/models"
	"cvforge/internal/repositories"

	"github.com/google/uuid"
)

// ErrTenantNotFound is the single error surfaced for both unknown and
// deactivated subdomains.
var ErrTenantNotFound = repositories.ErrTenantNotFound

// TenantCacheTTL bounds staleness after administrative edits.
const TenantCacheTTL = 60 * time.Second

// ResolverService maps an inbound subdomain to a tenant, caching successful
// resolutions and coalescing concurrent misses for the same key.
type ResolverService interface {
	// Resolve returns the tenant for a subdomain. An empty subdomain
	// yields the implicit platform-default tenant, never an error.
	Resolve(ctx context.Context, subdomain string) (*models.Tenant, error)
	// ResolveID returns an active tenant by id, bypassing the cache.
	ResolveID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	// Refresh re-reads a tenant from the store and rewrites the cache.
	Refresh(ctx context.Context, subdomain string) error
	// PlatformTenant is the implicit tenant applied when no partner
	// subdomain is present: default branding, full price, platform
	// credentials.
	PlatformTenant() *models.Tenant
}

type resolverService struct {
	tenantRepo repositories.TenantRepository
	cache      caching.CacheService
	platform   *config.PlatformConfig
	group      singleflight.Group
}

func NewResolverService(tenantRepo repositories.TenantRepository, cache caching.CacheService, platform *config.PlatformConfig) ResolverService {
	return &resolverService{
		tenantRepo: tenantRepo,
		cache:      cache,
		platform:   platform,
	}
}

func (s *resolverService) PlatformTenant() *models.Tenant {
	return &models.Tenant{
		ID:             uuid.Nil,
		Subdomain:      "",
		Active:         true,
		BrandName:      s.platform.Brand.Name,
		PrimaryColor:   s.platform.Brand.PrimaryColor,
		SecondaryColor: s.platform.Brand.SecondaryColor,
		LogoURL:        s.platform.Brand.LogoURL,
		FaviconURL:     s.platform.Brand.FaviconURL,
		ContactEmail:   s.platform.Brand.ContactEmail,
		BaseURL:        "/",
		Pricing:        s.platform.Pricing,
	}
}

func (s *resolverService) Resolve(ctx context.Context, subdomain string) (*models.Tenant, error) {
	subdomain = common.NormalizeSubdomain(subdomain)
	if subdomain == "" {
		// No tenant context is not an error: the platform's own
		// branding applies.
		return s.PlatformTenant(), nil
	}

	// Cache first. A cache failure degrades to a direct store read.
	miss, err := s.cache.IsTenantMiss(ctx, subdomain)
	if err != nil {
		log.Printf("WARN: tenant cache read failed for %q: %v", subdomain, err)
	} else if miss {
		return nil, ErrTenantNotFound
	}

	tenant, err := s.cache.GetTenant(ctx, subdomain)
	if err != nil {
		log.Printf("WARN: tenant cache read failed for %q: %v", subdomain, err)
	} else if tenant != nil {
		return tenant, nil
	}

	// Coalesce concurrent misses for the same subdomain into one store
	// read.
	v, err, _ := s.group.Do(subdomain, func() (interface{}, error) {
		return s.load(ctx, subdomain)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Tenant), nil
}

// load performs the single store read behind the singleflight group and
// populates the cache. The cache write uses a detached context so an
// abandoned request can never leave a partial write behind.
func (s *resolverService) load(ctx context.Context, subdomain string) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		if errors.Is(err, repositories.ErrTenantNotFound) {
			if ctx.Err() == nil {
				if cacheErr := s.cache.SetTenantMiss(context.WithoutCancel(ctx), subdomain, TenantCacheTTL); cacheErr != nil {
					log.Printf("WARN: tenant cache write failed for %q: %v", subdomain, cacheErr)
				}
			}
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	if cacheErr := s.cache.SetTenant(context.WithoutCancel(ctx), tenant, TenantCacheTTL); cacheErr != nil {
		log.Printf("WARN: tenant cache write failed for %q: %v", subdomain, cacheErr)
	}
	return tenant, nil
}

func (s *resolverService) ResolveID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	if id == uuid.Nil {
		return s.PlatformTenant(), nil
	}
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *resolverService) Refresh(ctx context.Context, subdomain string) error {
	subdomain = common.NormalizeSubdomain(subdomain)
	if subdomain == "" {
		return nil
	}
	_, err := s.load(ctx, subdomain)
	if errors.Is(err, ErrTenantNotFound) {
		return nil
	}
	return err
}
