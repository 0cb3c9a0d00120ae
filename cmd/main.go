package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"cvforge/internal/caching"
	"cvforge/internal/config"
	"cvforge/internal/handlers"
	"cvforge/internal/jobs"
	"cvforge/internal/middleware"
	"cvforge/internal/repositories"
	"cvforge/internal/services"
)

const version = "1.0.0"

func main() {
	// Load .env in development; absence is fine in production.
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Platform defaults: config file if present, env otherwise.
	var platformCfg *config.PlatformConfig
	if configPath := os.Getenv("PLATFORM_CONFIG"); configPath != "" {
		platformCfg, err = config.LoadPlatformConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load platform config: %v", err)
		}
	} else {
		platformCfg = config.DefaultPlatformConfig()
		if err := platformCfg.Validate(); err != nil {
			log.Fatalf("Invalid platform config: %v", err)
		}
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	platformDomain := os.Getenv("PLATFORM_DOMAIN")
	if platformDomain == "" {
		platformDomain = "cvforge.io"
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	resolverSvc := services.NewResolverService(tenantRepo, cacheSvc, platformCfg)
	entitlementSvc := services.NewEntitlementService()
	credentialsSvc := services.NewPaymentCredentialService(platformCfg)
	yocoSvc := services.NewYocoService(os.Getenv("YOCO_API_URL"))

	// Middleware
	authMiddleware, err := middleware.NewAuthMiddleware(userRepo, platformCfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize auth middleware: %v", err)
	}
	tenantMiddleware := middleware.NewTenantMiddleware(resolverSvc, platformDomain)
	entitlementMiddleware := middleware.NewEntitlementMiddleware(entitlementSvc)

	// Create handlers
	tenantHandlers := handlers.NewTenantHandlers(resolverSvc, platformCfg)
	entitlementHandlers := handlers.NewEntitlementHandlers(entitlementSvc)
	paymentHandlers := handlers.NewPaymentHandlers(resolverSvc, credentialsSvc, yocoSvc, platformCfg)
	webhookHandlers := handlers.NewWebhookHandlers(credentialsSvc, yocoSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background cache refresh keeps branding warm between TTL expiries.
	cacheRefresher, err := jobs.NewTenantCacheRefresher(tenantRepo, cacheSvc, 30*time.Second)
	if err != nil {
		log.Fatalf("Failed to create cache refresher: %v", err)
	}
	cacheRefresher.Start()
	defer cacheRefresher.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no tenant or auth context required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes: tenant resolution first, then optional auth.
	v1 := e.Group("/v1")
	v1.Use(tenantMiddleware.ResolveTenant())
	v1.Use(authMiddleware.OptionalAuth())

	v1.GET("/tenant", tenantHandlers.GetCurrentTenant)
	v1.GET("/tenants/:subdomain", tenantHandlers.GetTenant)

	v1.POST("/entitlements/check", entitlementHandlers.CheckEntitlement)
	v1.GET("/capabilities", entitlementHandlers.ListCapabilities)
	v1.POST("/capabilities/:name/check", entitlementHandlers.CheckCapability)

	v1.POST("/payments/checkout", paymentHandlers.CreateCheckout)

	// Internal routes, not exposed through the public edge.
	internalGroup := e.Group("/internal/v1")
	internalGroup.POST("/payments/credentials", paymentHandlers.GetCredentials)
	internalGroup.POST("/tenants/:subdomain/refresh", tenantHandlers.RefreshTenant)

	// Gateway webhooks arrive on the partner host, so tenant resolution
	// applies but auth does not.
	webhooks := e.Group("/webhooks")
	webhooks.Use(tenantMiddleware.ResolveTenant())
	webhooks.POST("/yoco", webhookHandlers.YocoWebhook)

	// Per-feature access probes. The feature services themselves are
	// external; the gateway answers the entitlement question for each
	// of them at a stable URL.
	features := v1.Group("/features")
	for _, capability := range entitlementSvc.Capabilities() {
		features.GET("/"+capability.Name+"/access", func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, entitlementMiddleware.RequireCapability(capability.Name))
	}

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("🚀 cvforge server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
