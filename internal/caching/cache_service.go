package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cvforge/internal/models"
)

// CacheService is the resolver's short-lived cache. It bounds staleness
// after administrative tenant edits while avoiding a store round-trip per
// request.
type CacheService interface {
	// Tenant caching, keyed by normalized subdomain.
	GetTenant(ctx context.Context, subdomain string) (*models.Tenant, error)
	SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error

	// Negative caching for subdomains known not to resolve.
	SetTenantMiss(ctx context.Context, subdomain string, ttl time.Duration) error
	IsTenantMiss(ctx context.Context, subdomain string) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

const missSentinel = "__miss__"

func tenantKey(subdomain string) string {
	return fmt.Sprintf("cvforge:tenant:%s", subdomain)
}

func (r *redisCacheService) GetTenant(ctx context.Context, subdomain string) (*models.Tenant, error) {
	data, err := r.client.Get(ctx, tenantKey(subdomain)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	if string(data) == missSentinel {
		return nil, nil
	}

	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *redisCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, tenantKey(tenant.Subdomain), data, ttl).Err()
}

func (r *redisCacheService) SetTenantMiss(ctx context.Context, subdomain string, ttl time.Duration) error {
	return r.client.Set(ctx, tenantKey(subdomain), missSentinel, ttl).Err()
}

func (r *redisCacheService) IsTenantMiss(ctx context.Context, subdomain string) (bool, error) {
	data, err := r.client.Get(ctx, tenantKey(subdomain)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return data == missSentinel, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
