package handler

import (
	"net/http"
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

// MinPasswordLength is the minimum accepted customer password length
const MinPasswordLength = 6

// RegisterUser handles customer registration. A successful registration
// also establishes the customer session.
func RegisterUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.UserRegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		log.Warn("Incomplete registration data", zap.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name, email and password are required"})
	}
	if len(req.Password) < MinPasswordLength {
		log.Warn("Password too short", zap.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 6 characters"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	// Email uniqueness is exact and case-sensitive, matching storage
	if doc.UserByEmail(req.Email) != nil {
		log.Warn("Email already registered", zap.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	user := model.Customer{
		ID:        doc.AllocateUserID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
	}
	doc.Users = append(doc.Users, user)

	start = time.Now()
	err = store.Get().Save(doc)
	prometheus.TrackStoreOperation("save")(start)
	if err != nil {
		// The in-memory mutation is lost; never claim success
		log.Error("Failed to persist new user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	// Registration implies login
	if err := session.SetCustomer(c, user.ID, user.Name, user.Email); err != nil {
		log.Error("Failed to save session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Registration failed"})
	}

	log.Info("User registered", zap.Int("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"name":    user.Name,
		"email":   user.Email,
	})
}

// LoginUser handles customer login. Failures deliberately return one
// generic message so account existence is not leaked.
func LoginUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.UserLoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	start := time.Now()
	doc, err := store.Get().Load()
	prometheus.TrackStoreOperation("load")(start)
	if err != nil {
		log.Error("Failed to load document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}

	user := doc.UserByEmail(req.Email)
	if user == nil {
		log.Warn("Login for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}

	if err := session.SetCustomer(c, user.ID, user.Name, user.Email); err != nil {
		log.Error("Failed to save session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed"})
	}

	log.Info("User logged in", zap.Int("user_id", user.ID), zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"name":    user.Name,
		"email":   user.Email,
	})
}

// LogoutUser clears the customer session fields
func LogoutUser(c echo.Context) error {
	if err := session.ClearCustomer(c); err != nil {
		logger.FromContext(c).Error("Failed to save session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CheckUser reports the current customer session state without mutation
func CheckUser(c echo.Context) error {
	_, name, email, ok := session.Customer(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"loggedIn": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"loggedIn": true,
		"name":     name,
		"email":    email,
	})
}
