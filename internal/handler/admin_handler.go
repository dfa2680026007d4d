package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"storefront/internal/model"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/pkg/logger"
	"storefront/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProductRequest defines the structure for product creation/update
// requests. Missing optional fields get the documented defaults.
type ProductRequest struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       string    `json:"price"`
	OldPrice    string    `json:"old_price"`
	Commission  string    `json:"commission"`
	Type        string    `json:"type"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Hot         boolOrOne `json:"hot"`
	Active      boolOrOne `json:"active"`
}

// boolOrOne accepts a JSON boolean or the string "1" as true. The admin
// form transports the hot and active flags either way; anything else is
// false.
type boolOrOne bool

func (b *boolOrOne) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = boolOrOne(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = s == "1"
		return nil
	}
	*b = false
	return nil
}

// productFromRequest maps request fields onto a product, applying the
// field defaults shared by create and update. ID, Active and CreatedAt
// are left for the caller.
func productFromRequest(req ProductRequest) model.Product {
	p := model.Product{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Commission:  req.Commission,
		Type:        req.Type,
		Emoji:       req.Emoji,
		Description: req.Description,
		Link:        req.Link,
		Hot:         bool(req.Hot),
	}
	if p.Type == "" {
		p.Type = "affiliate"
	}
	if p.Emoji == "" {
		p.Emoji = "📦"
	}
	if p.Link == "" {
		p.Link = "#"
	}
	return p
}

// AdminLogin handles admin authentication against the stored credential
func AdminLogin(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AdminLoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse admin login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}

	if req.Username != doc.Admin.Username ||
		bcrypt.CompareHashAndPassword([]byte(doc.Admin.Password), []byte(req.Password)) != nil {
		log.Warn("Admin login rejected", zap.String("username", req.Username))
		prometheus.RecordAuthError("admin_invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Wrong username or password"})
	}

	if err := session.SetAdmin(c, req.Username); err != nil {
		log.Error("Failed to save session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}

	log.Info("Admin logged in", zap.String("username", req.Username))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AdminLogout destroys the whole session
func AdminLogout(c echo.Context) error {
	if err := session.DestroyAdmin(c); err != nil {
		logger.FromContext(c).Error("Failed to destroy session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AdminCheck reports the admin session state without authentication
func AdminCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"loggedIn": session.IsAdmin(c)})
}

// AdminListProducts returns all products, inactive included, newest
// first
func AdminListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	products := make([]model.Product, len(doc.Products))
	copy(products, doc.Products)
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })

	return c.JSON(http.StatusOK, products)
}

// AdminListUsers returns customer summaries without password hashes
func AdminListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve users"})
	}

	users := make([]echo.Map, 0, len(doc.Users))
	for _, u := range doc.Users {
		users = append(users, echo.Map{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"created_at": u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, users)
}

// AdminCreateProduct handles creating a new product
func AdminCreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	product := productFromRequest(req)
	product.ID = doc.AllocateProductID()
	product.Active = true
	product.CreatedAt = time.Now().UTC()
	doc.Products = append(doc.Products, product)

	start = time.Now()
	err = store.Get().Save(doc)
	prometheus.TrackStoreOperation("save")(start)
	if err != nil {
		log.Error("Failed to persist product", zap.Int("product_id", product.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created successfully",
		zap.Int("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("category", product.Category))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "id": product.ID})
}

// AdminUpdateProduct replaces every mutable field of an existing
// product; ID and CreatedAt are never touched
func AdminUpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Int("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	idx := doc.ProductIndex(id)
	if idx == -1 {
		log.Warn("Product not found for update", zap.Int("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}

	product := productFromRequest(req)
	product.ID = doc.Products[idx].ID
	product.CreatedAt = doc.Products[idx].CreatedAt
	product.Active = bool(req.Active)
	doc.Products[idx] = product

	start = time.Now()
	err = store.Get().Save(doc)
	prometheus.TrackStoreOperation("save")(start)
	if err != nil {
		log.Error("Failed to persist product", zap.Int("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated successfully",
		zap.Int("product_id", id),
		zap.Bool("active", product.Active))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AdminDeleteProduct hard-deletes a product. Deleting an unknown ID is
// a no-op success.
func AdminDeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	kept := doc.Products[:0]
	for _, p := range doc.Products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	doc.Products = kept

	start = time.Now()
	err = store.Get().Save(doc)
	prometheus.TrackStoreOperation("save")(start)
	if err != nil {
		log.Error("Failed to persist deletion", zap.Int("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted", zap.Int("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AdminUpdateSettings shallow-merges the supplied keys into the site
// settings; unspecified keys are untouched
func AdminUpdateSettings(c echo.Context) error {
	log := logger.FromContext(c)

	var req map[string]string
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update settings"})
	}

	for k, v := range req {
		doc.Settings[k] = v
	}

	start = time.Now()
	err = store.Get().Save(doc)
	prometheus.TrackStoreOperation("save")(start)
	if err != nil {
		log.Error("Failed to persist settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update settings"})
	}

	log.Info("Settings updated", zap.Int("keys", len(req)))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// AdminChangePassword rotates the admin password after verifying the
// current one; the username is left untouched
func AdminChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Current string `json:"current"`
		NewPass string `json:"newpass"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to change password"})
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.Admin.Password), []byte(req.Current)) != nil {
		log.Warn("Password change rejected: current password mismatch")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Current password is wrong"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to change password"})
	}
	doc.Admin.Password = string(hash)

	start = time.Now()
	err = store.Get().Save(doc)
	prometheus.TrackStoreOperation("save")(start)
	if err != nil {
		log.Error("Failed to persist password change", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to change password"})
	}

	log.Info("Admin password changed")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
