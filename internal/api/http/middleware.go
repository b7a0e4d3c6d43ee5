package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/config"
	"github.com/helpdeskhq/helpdesk-service/internal/observability"
	"github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// MiddlewareConfig bundles dependencies for global middleware registration.
type MiddlewareConfig struct {
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	RateLimit    config.RateLimitConfig
	LimiterStore fiber.Storage
	Timeout      time.Duration
}

// RegisterMiddlewares attaches global middlewares: security headers, CORS,
// rate limiting, request logging, and the error envelope. The request logger
// wraps the error envelope so it observes the status actually sent, not the
// pre-envelope default.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(rateLimiter(cfg))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics))
}

func rateLimiter(cfg MiddlewareConfig) fiber.Handler {
	limiterCfg := limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window(),
		LimitReached: func(c *fiber.Ctx) error {
			cfg.Logger.Warn("rate limit exceeded",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"message":    "Too many requests, please try again later",
					"retryAfter": int(cfg.RateLimit.Window().Seconds()),
				},
			})
		},
	}
	if cfg.LimiterStore != nil {
		limiterCfg.Storage = cfg.LimiterStore
	}
	return limiter.New(limiterCfg)
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// toDomainError keeps fiber's own errors (unmatched route, method not
// allowed, oversized body) at their status instead of collapsing them to 500.
func toDomainError(err error) *util.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return util.NewDomainError("HTTP_ERROR", fiberErr.Message, fiberErr.Code)
	}
	return util.ToDomainError(err)
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = util.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

				errBody := fiber.Map{
					"message":   domainErr.Message,
					"timestamp": domainErr.Timestamp.Format(time.RFC3339),
				}
				if len(domainErr.Errors) > 0 {
					errBody["errors"] = domainErr.Errors
				}

				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("method", c.Method()),
						zap.String("path", c.Path()),
						zap.Error(domainErr))
				} else {
					logger.Warn("client error",
						zap.String("method", c.Method()),
						zap.String("path", c.Path()),
						zap.String("error", domainErr.Message))
				}

				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"success": false, "error": errBody})
				err = nil
			}
		}()
		return c.Next()
	}
}
