package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, env *testEnv) {
	t.Helper()
	env.createProduct(t, "Classic Tee", 100, "clothing", true)
	env.createProduct(t, "Denim Jacket", 450, "clothing", true)
	env.createProduct(t, "Canvas Sneakers", 250, "footwear", true)
	env.createProduct(t, "Hidden Item", 10, "clothing", false) // Inactive, must never appear
}

func TestListProductsServesOnlyActive(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	w := env.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["total"])
	for _, p := range body["products"].([]any) {
		assert.NotEqual(t, "Hidden Item", p.(map[string]any)["name"])
	}
}

func TestListProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	w := env.do(t, http.MethodGet, "/api/products?category=clothing", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])

	w = env.do(t, http.MethodGet, "/api/products?min_price=200&max_price=300", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, float64(1), body["total"])
	products := body["products"].([]any)
	assert.Equal(t, "Canvas Sneakers", products[0].(map[string]any)["name"])

	w = env.do(t, http.MethodGet, "/api/products?search=denim", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])

	w = env.do(t, http.MethodGet, "/api/products?min_price=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProductsPaginates(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 25; i++ {
		env.createProduct(t, fmt.Sprintf("Item %02d", i), float64(10+i), "bulk", true)
	}

	w := env.do(t, http.MethodGet, "/api/products?page=2&page_size=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(25), body["total"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Len(t, body["products"].([]any), 10)
}

func TestListProductsSecondReadIsCached(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	w := env.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["cached"])

	w = env.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["cached"])
	assert.Equal(t, float64(3), body["total"]) // Same data either way
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	active := env.createProduct(t, "Classic Tee", 100, "clothing", true)
	inactive := env.createProduct(t, "Hidden Item", 10, "clothing", false)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", active.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Deactivated products read as missing
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", inactive.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/products/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCategoriesWithCounts(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	w := env.do(t, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	categories := decodeBody(t, w)["categories"].([]any)
	require.Len(t, categories, 2) // clothing + footwear; the inactive item counts nowhere
	first := categories[0].(map[string]any)
	assert.Equal(t, "clothing", first["category"])
	assert.Equal(t, float64(2), first["count"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["db"])
	assert.Equal(t, "up", body["redis"])
}
