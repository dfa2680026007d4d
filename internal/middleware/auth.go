package middleware

import (
	"net/http"

	"storefront/internal/session"
	"storefront/pkg/logger"
	"storefront/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireAdmin guards protected admin operations. Requests without an
// authenticated admin session are rejected before any store access.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !session.IsAdmin(c) {
			log := logger.FromContext(c)
			log.Warn("Rejected unauthenticated admin request",
				zap.String("path", c.Path()))
			prometheus.RecordAuthError("not_authenticated")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
		}
		return next(c)
	}
}
