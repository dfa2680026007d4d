package handler

import (
	"net/http"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/store"
	"storefront/pkg/logger"
	"storefront/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListProducts handles the public catalog listing with optional
// category and search filters
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.CatalogQueriesCounter.Inc()

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}

	category := c.QueryParam("category")
	search := c.QueryParam("search")
	products := catalog.Filter(doc.Products, category, search)

	log.Info("Products retrieved successfully",
		zap.Int("count", len(products)),
		zap.String("category", category),
		zap.String("search", search))
	return c.JSON(http.StatusOK, products)
}

// ListCategories handles the public category listing, "All" first
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}

	return c.JSON(http.StatusOK, catalog.Categories(doc.Products))
}

// GetSettings handles the public site settings lookup
func GetSettings(c echo.Context) error {
	log := logger.FromContext(c)

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve settings",
		})
	}

	return c.JSON(http.StatusOK, doc.Settings)
}
