package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/store"
	"storefront/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGuardRejectsWithoutSession(t *testing.T) {
	newTestEnv(t)
	e := newRouter()

	protected := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/admin/products"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPost, "/api/admin/products"},
		{http.MethodPut, "/api/admin/products/1"},
		{http.MethodDelete, "/api/admin/products/1"},
		{http.MethodPost, "/api/admin/settings"},
		{http.MethodPost, "/api/admin/change-password"},
		{http.MethodPost, "/api/admin/logout"},
	}
	for _, op := range protected {
		rec := request(e, op.method, op.target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", op.method, op.target)
	}
}

func TestAdminLoginLogoutLifecycle(t *testing.T) {
	newTestEnv(t)
	e := newRouter()

	rec := request(e, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(e, http.MethodPost, "/api/admin/login", `{"username":"ghost","password":"admin123"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := adminLogin(t, e)

	rec = request(e, http.MethodGet, "/api/admin/check", "", cookies)
	assert.Equal(t, true, decode(t, rec)["loggedIn"])

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout destroys the session; the same protected operation now
	// fails with an authentication error
	rec = request(e, http.MethodPost, "/api/admin/logout", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies = rec.Result().Cookies()

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCreateProductAppliesDefaults(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	rec := request(e, http.MethodPost, "/api/admin/products",
		`{"name":"Shoes","category":"Fashion","price":"999"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["id"])

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	products := decodeList(t, rec)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, float64(1), p["id"])
	assert.Equal(t, "affiliate", p["type"])
	assert.Equal(t, "📦", p["emoji"])
	assert.Equal(t, "#", p["link"])
	assert.Equal(t, "", p["old_price"])
	assert.Equal(t, "", p["commission"])
	assert.Equal(t, false, p["hot"])
	assert.Equal(t, true, p["active"])
	assert.NotEmpty(t, p["created_at"])

	// The new product is publicly visible
	rec = request(e, http.MethodGet, "/api/products", "", nil)
	assert.Len(t, decodeList(t, rec), 1)
}

func TestAdminCreateAllocatesIncreasingIDs(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	for i := 1; i <= 3; i++ {
		rec := request(e, http.MethodPost, "/api/admin/products",
			fmt.Sprintf(`{"name":"P%d","category":"Misc","price":"1"}`, i), cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(i), decode(t, rec)["id"])
	}

	// Deleting does not free the ID for reuse
	rec := request(e, http.MethodDelete, "/api/admin/products/3", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodPost, "/api/admin/products",
		`{"name":"P4","category":"Misc","price":"1"}`, cookies)
	assert.Equal(t, float64(4), decode(t, rec)["id"])
}

func TestAdminUpdateProduct(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	rec := request(e, http.MethodPut, "/api/admin/products/42",
		`{"name":"Ghost","category":"Misc","active":true}`, cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(e, http.MethodPost, "/api/admin/products",
		`{"name":"Shoes","category":"Fashion","price":"999"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	createdAt := decodeList(t, rec)[0]["created_at"]

	// The active flag arrives as the string "1" from the admin form
	rec = request(e, http.MethodPut, "/api/admin/products/1",
		`{"name":"Boots","category":"Fashion","price":"899","hot":true,"active":"1"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	p := decodeList(t, rec)[0]
	assert.Equal(t, "Boots", p["name"])
	assert.Equal(t, "899", p["price"])
	assert.Equal(t, true, p["hot"])
	assert.Equal(t, true, p["active"])
	// Immutable fields survive the full-replacement update
	assert.Equal(t, float64(1), p["id"])
	assert.Equal(t, createdAt, p["created_at"])

	// Omitting active deactivates: update is total replacement
	rec = request(e, http.MethodPut, "/api/admin/products/1",
		`{"name":"Boots","category":"Fashion","price":"899"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// Deactivated products disappear from the public catalog but stay
	// in the admin listing
	rec = request(e, http.MethodGet, "/api/products", "", nil)
	assert.Empty(t, decodeList(t, rec))
	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	require.Len(t, decodeList(t, rec), 1)
	assert.Equal(t, false, decodeList(t, rec)[0]["active"])
}

func TestAdminDeleteProductIsIdempotent(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	// Deleting a non-existent ID is a no-op success
	rec := request(e, http.MethodDelete, "/api/admin/products/99", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = request(e, http.MethodPost, "/api/admin/products",
		`{"name":"Shoes","category":"Fashion","price":"999"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodDelete, "/api/admin/products/1", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	assert.Empty(t, decodeList(t, rec))
}

func TestAdminListProductsNewestFirstIncludingInactive(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	for _, name := range []string{"A", "B", "C"} {
		rec := request(e, http.MethodPost, "/api/admin/products",
			fmt.Sprintf(`{"name":%q,"category":"Misc","price":"1"}`, name), cookies)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	// Deactivate B
	rec := request(e, http.MethodPut, "/api/admin/products/2",
		`{"name":"B","category":"Misc","price":"1"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/admin/products", "", cookies)
	products := decodeList(t, rec)
	require.Len(t, products, 3)
	assert.Equal(t, float64(3), products[0]["id"])
	assert.Equal(t, float64(2), products[1]["id"])
	assert.Equal(t, float64(1), products[2]["id"])
}

func TestAdminListUsersOmitsPasswords(t *testing.T) {
	newTestEnv(t)
	e := newRouter()

	rec := request(e, http.MethodPost, "/api/user/register", registerBody("Ana", "ana@shop.test", "secret1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := adminLogin(t, e)
	rec = request(e, http.MethodGet, "/api/admin/users", "", cookies)
	users := decodeList(t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, float64(1), users[0]["id"])
	assert.Equal(t, "ana@shop.test", users[0]["email"])
	assert.NotContains(t, users[0], "password")
}

func TestAdminSettingsShallowMerge(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	rec := request(e, http.MethodPost, "/api/admin/settings", `{"primary_color":"#00FF00"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/settings", "", nil)
	settings := decode(t, rec)
	assert.Equal(t, "#00FF00", settings["primary_color"])
	// Unspecified keys are untouched
	assert.Equal(t, "Your Marketplace", settings["tagline"])
	assert.Equal(t, "Weelu", settings["site_name"])
}

func TestAdminChangePassword(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	rec := request(e, http.MethodPost, "/api/admin/change-password",
		`{"current":"wrong","newpass":"newsecret"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(e, http.MethodPost, "/api/admin/change-password",
		`{"current":"admin123","newpass":"newsecret"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"admin123"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(e, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"newsecret"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMutationNotReportedSuccessWhenStoreFails(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	rec := request(e, http.MethodPost, "/api/admin/products",
		`{"name":"Shoes","category":"Fashion","price":"999"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// Pull the data directory out from under the store: the next
	// persist attempt fails and must not surface as success
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, store.Init(&config.Config{
		Store: config.StoreConfig{Path: filepath.Join(dir, "storefront.json")},
		Admin: config.AdminConfig{Username: "admin", Password: "admin123"},
	}))
	require.NoError(t, os.RemoveAll(dir))

	rec = request(e, http.MethodPost, "/api/admin/products",
		`{"name":"Lamp","category":"Home","price":"499"}`, cookies)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "error")
	assert.NotContains(t, body, "success")
}

func TestProductHotFlagAcceptsStringForm(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	// The admin form may transport hot as the string "1", like active
	rec := request(e, http.MethodPost, "/api/admin/products",
		`{"name":"Charger","category":"Electronics","price":"299","hot":"1"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/products", "", nil)
	products := decodeList(t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, true, products[0]["hot"])

	rec = request(e, http.MethodPut, "/api/admin/products/1",
		`{"name":"Charger","category":"Electronics","price":"279","hot":"1","active":"1"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/api/products", "", nil)
	products = decodeList(t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, true, products[0]["hot"])
}

func TestPublicCatalogFiltersAndSort(t *testing.T) {
	newTestEnv(t)
	e := newRouter()
	cookies := adminLogin(t, e)

	seed := []string{
		`{"name":"Shoes","category":"Fashion","price":"999"}`,
		`{"name":"Lamp","category":"Home","price":"499"}`,
		`{"name":"Charger","category":"Electronics","price":"299","hot":true}`,
	}
	for _, body := range seed {
		rec := request(e, http.MethodPost, "/api/admin/products", body, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Hot products lead, then newest first
	rec := request(e, http.MethodGet, "/api/products", "", nil)
	products := decodeList(t, rec)
	require.Len(t, products, 3)
	assert.Equal(t, "Charger", products[0]["name"])
	assert.Equal(t, "Lamp", products[1]["name"])
	assert.Equal(t, "Shoes", products[2]["name"])

	rec = request(e, http.MethodGet, "/api/products?category=Home", "", nil)
	products = decodeList(t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0]["name"])

	rec = request(e, http.MethodGet, "/api/products?search=sho", "", nil)
	products = decodeList(t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "Shoes", products[0]["name"])

	rec = request(e, http.MethodGet, "/api/categories", "", nil)
	var cats []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.NotEmpty(t, cats)
	assert.Equal(t, "All", cats[0])
	assert.ElementsMatch(t, []string{"All", "Fashion", "Home", "Electronics"}, cats)
}
