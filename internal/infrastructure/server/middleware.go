package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpHandlers "github.com/SmriteePoudel/ProductivityApp-sub000/internal/adapters/http"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/ratelimit"
)

// setupMiddleware installs the global chain. Order matters: request IDs must
// exist before the access log runs, and the limiter sits in front of routing.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.accessLog())

	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}

	s.echo.Use(s.cors())
	s.echo.Use(s.rateLimiter())
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      s.config.Server.RequestTimeout,
			ErrorMessage: `{"error":"Request timed out"}`,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Path(), "/swagger")
			},
		}))
	}
}

// accessLog writes one entry per request; the level follows the status class
func (s *Server) accessLog() echo.MiddlewareFunc {
	log := s.logger.WithComponent("http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", float64(v.Latency.Microseconds()) / 1000,
				"remote_ip", v.RemoteIP,
				"user_agent", v.UserAgent,
				"request_id", v.RequestID,
			}
			if user := httpHandlers.CurrentUser(c); user != nil {
				fields = append(fields, "user_id", user.ID)
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error.Error())
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Errorw("HTTP request failed", fields...)
			case v.Status >= http.StatusBadRequest:
				log.Warnw("HTTP request rejected", fields...)
			default:
				log.Infow("HTTP request", fields...)
			}
			return nil
		},
	})
}

// cors allows credentials so browsers send the session cookie
func (s *Server) cors() echo.MiddlewareFunc {
	origins := strings.Split(s.config.Security.CORSAllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	})
}

// rateLimiter keys on the client IP. A failing Redis backend lets requests
// through rather than locking every client out.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	store := ratelimit.NewStore(s.config.Security, s.redis, func(err error) {
		s.logger.Warnw("Rate limiter backend failed, allowing request", "error", err.Error())
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/ready"
		},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			s.logger.LogSecurityEvent("rate_limited", "", identifier, map[string]interface{}{
				"endpoint": c.Request().URL.Path,
			})
			return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
		},
	})
}
