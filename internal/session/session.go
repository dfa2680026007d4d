// Package session manages the cookie-backed session container shared by
// the two principals: the admin and the customer. Their state and
// lifecycles never interact, except that destroying the whole session
// on admin logout drops everything in the cookie.
package session

import (
	"net/http"

	"storefront/pkg/config"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const sessionName = "storefront_session"

const (
	keyAdminLoggedIn = "admin_logged_in"
	keyAdminUsername = "admin_username"
	keyUserID        = "user_id"
	keyUserName      = "user_name"
	keyUserEmail     = "user_email"
)

var cookieStore *sessions.CookieStore

// Init initializes the global cookie store. MaxAge is the fixed maximum
// session lifetime; there is no other expiry logic.
func Init(cfg *config.Config) {
	cookieStore = sessions.NewCookieStore([]byte(cfg.Session.Secret))
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.Path = "/"
	cookieStore.Options.SameSite = http.SameSiteLaxMode
	cookieStore.Options.MaxAge = int(cfg.Session.MaxAge.Seconds())
}

func get(c echo.Context) *sessions.Session {
	// An undecodable cookie yields a fresh session, which is the right
	// fallback for both principals
	sess, _ := cookieStore.Get(c.Request(), sessionName)
	return sess
}

// SetAdmin marks the session as an authenticated admin
func SetAdmin(c echo.Context, username string) error {
	sess := get(c)
	sess.Values[keyAdminLoggedIn] = true
	sess.Values[keyAdminUsername] = username
	return sess.Save(c.Request(), c.Response())
}

// IsAdmin reports whether the request carries an authenticated admin
// session
func IsAdmin(c echo.Context) bool {
	loggedIn, ok := get(c).Values[keyAdminLoggedIn].(bool)
	return ok && loggedIn
}

// DestroyAdmin tears down the whole session, not just the admin flag
func DestroyAdmin(c echo.Context) error {
	sess := get(c)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1 // Expire immediately
	return sess.Save(c.Request(), c.Response())
}

// SetCustomer establishes the customer principal for the given user
func SetCustomer(c echo.Context, id int, name, email string) error {
	sess := get(c)
	sess.Values[keyUserID] = id
	sess.Values[keyUserName] = name
	sess.Values[keyUserEmail] = email
	return sess.Save(c.Request(), c.Response())
}

// Customer returns the logged-in customer's identity, if any
func Customer(c echo.Context) (id int, name, email string, ok bool) {
	sess := get(c)
	id, ok = sess.Values[keyUserID].(int)
	if !ok {
		return 0, "", "", false
	}
	name, _ = sess.Values[keyUserName].(string)
	email, _ = sess.Values[keyUserEmail].(string)
	return id, name, email, true
}

// ClearCustomer removes only the customer fields, leaving the session
// itself (and any admin state) intact
func ClearCustomer(c echo.Context) error {
	sess := get(c)
	delete(sess.Values, keyUserID)
	delete(sess.Values, keyUserName)
	delete(sess.Values, keyUserEmail)
	return sess.Save(c.Request(), c.Response())
}
