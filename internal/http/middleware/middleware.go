package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	"github.com/rs/xid"

	"foodgram-pages/internal/config"
	"foodgram-pages/internal/domain"
	"foodgram-pages/internal/infra/logging"
	"foodgram-pages/internal/tokens"
)

const (
	// APIKeyHeader carries the API token for /v1 endpoints.
	APIKeyHeader = "X-API-Key"
	// APIKeyLocal is the fiber.Ctx local holding a validated token.
	APIKeyLocal = "api_key"
	// APIPrefix marks routes that answer in JSON and accept API keys.
	APIPrefix = "/v1"
)

// Deps are the shared stores the middleware stack needs.
type Deps struct {
	// Tokens is nil when API-key auth is disabled.
	Tokens *tokens.Cache
	// Store backs the rate limiters; memory storage is used when nil.
	Store fiber.Storage
}

// IsAPIPath reports whether path belongs to the JSON API.
func IsAPIPath(path string) bool {
	return path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/")
}

// Register attaches global middleware to the app.
func Register(app *fiber.App, cfg config.Config, deps Deps) {
	store := deps.Store
	if store == nil {
		store = memoryStorage.New()
	}

	app.Use(fiberrecover.New())

	app.Use(cors.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/ops/health",
		ReadinessEndpoint: "/ops/ready",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return deps.Tokens == nil || deps.Tokens.Ready()
		},
	}))

	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	app.Use(etag.New())

	if deps.Tokens != nil {
		app.Use(apiKeyAuth(deps.Tokens))
		app.Use(TokenRateLimit(cfg.RateLimiter.Interval, deps.Tokens, store, NewLimiterCache()))
	}

	if cfg.RateLimiter.EnableUserLimiter || cfg.RateLimiter.UserLimit > 0 {
		app.Use(UserRateLimit(cfg, store))
	}

	app.Use(requestLogger())
}

// apiKeyAuth validates X-API-Key on API routes. Requests without a key pass
// through and fall under the per-client limiter.
func apiKeyAuth(cache *tokens.Cache) fiber.Handler {
	return keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + APIKeyHeader,
		ContextKey: APIKeyLocal,
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			if !cache.Ready() {
				return false, domain.ErrTokenStoreNotReady
			}
			if !cache.Validate(key) {
				return false, domain.ErrInvalidAPIKey
			}
			return true, nil
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || c.Get(APIKeyHeader) == "" || !IsAPIPath(c.Path())
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// keyauth can call ErrorHandler with a nil error.
			if err == nil {
				err = domain.ErrInvalidAPIKey
			}
			status := fiber.StatusUnauthorized
			if err == domain.ErrTokenStoreNotReady {
				status = fiber.StatusServiceUnavailable
			}
			return c.Status(status).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    status,
					"message": err.Error(),
				},
			})
		},
	})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		logging.Info("Request handled",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return err
	}
}
