package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/infinitystore/backend/app/configs"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories/repotest"
	"github.com/infinitystore/backend/app/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-with-32-bytes-min"

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, string) (*services.ExternalIdentity, error) {
	return nil, errors.New("token rejected")
}

type testAPI struct {
	t      *testing.T
	router *mux.Router
	mem    *repotest.Memory
	env    configs.ENV
	tokens *services.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	mem := repotest.NewMemory()
	env := configs.ENV{
		AppEnv:      "test",
		AppURL:      "http://shop.test",
		JWTSecret:   testSecret,
		JWTTTL:      time.Hour,
		UploadDir:   filepath.Join(t.TempDir(), "uploads"),
		MaxUploadMB: 1,
	}
	return &testAPI{
		t:   t,
		mem: mem,
		env: env,
		router: Build(Dependencies{
			Repos:    mem.Repositories(),
			Store:    mem,
			Verifier: rejectingVerifier{},
			Env:      env,
		}),
		tokens: services.NewTokenService(testSecret, time.Hour),
	}
}

func (a *testAPI) tokenFor(u models.User) string {
	a.t.Helper()
	tok, err := a.tokens.Issue(helpers.AuthUser{ID: u.ID, Role: u.Role})
	require.NoError(a.t, err)
	return tok
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func (a *testAPI) seedCatalog() (models.Category, models.Product) {
	c := a.mem.AddCategory(models.Category{Name: "Books", ImageURL: models.DefaultCategoryImageURL, Active: true})
	p := a.mem.AddProduct(models.Product{
		Name:        "Go Programming",
		Description: "A book",
		Price:       decimal.RequireFromString("10.00"),
		Stock:       5,
		CategoryID:  c.ID,
		Active:      true,
	})
	return c, p
}

func TestHome(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do("GET", "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestUnknownRoutesAnswerWithJSON(t *testing.T) {
	api := newTestAPI(t)

	testCases := []struct {
		method, path    string
		expectedStatus  int
		expectedMessage string
	}{
		{"GET", "/api/nothing-here", http.StatusNotFound, "Route not found."},
		{"PATCH", "/api/products", http.StatusMethodNotAllowed, "Method not allowed."},
		{"DELETE", "/api/categories/1", http.StatusMethodNotAllowed, "Method not allowed."},
		{"GET", "/api/auth/login", http.StatusMethodNotAllowed, "Method not allowed."},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec, body := api.do(tc.method, tc.path, "", nil)
			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			assert.Equal(t, tc.expectedMessage, body["message"])
		})
	}
}

func TestRegisterLoginAndCheckout(t *testing.T) {
	api := newTestAPI(t)
	_, product := api.seedCatalog()

	rec, body := api.do("POST", "/api/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "Secret#123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "Secret#123")
	assert.NotContains(t, rec.Body.String(), `"password"`)

	rec, body = api.do("POST", "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "Secret#123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	rec, body = api.do("GET", "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", body["email"])

	rec, body = api.do("POST", "/api/orders", token, map[string]any{
		"items": []map[string]any{{"productId": product.ID, "quantity": 3, "unitPrice": 0.01}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := body["order"].(map[string]any)
	assert.Equal(t, 30.0, order["total"])
	assert.Equal(t, models.OrderStatePending, order["state"])
	details := order["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, 10.0, details[0].(map[string]any)["unit_price"])

	stored, _ := api.mem.Product(product.ID)
	assert.Equal(t, 2, stored.Stock)

	rec, _ = api.do("GET", "/api/orders/my-orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	api := newTestAPI(t)
	_, product := api.seedCatalog()
	customer := api.mem.AddUser(models.User{Name: "Ana", Email: "ana@example.com"})

	rec, body := api.do("POST", "/api/orders", api.tokenFor(customer), map[string]any{
		"items": []map[string]any{{"productId": product.ID, "quantity": 6}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], fmt.Sprintf("product %d", product.ID))
	assert.Equal(t, 0, api.mem.CountOrders())
	stored, _ := api.mem.Product(product.ID)
	assert.Equal(t, 5, stored.Stock)

	rec, _ = api.do("POST", "/api/orders", api.tokenFor(customer), map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFailures(t *testing.T) {
	api := newTestAPI(t)
	api.mem.AddUser(models.User{Name: "Ana", Email: "ana@example.com", Password: "x"})

	testCases := []struct {
		name           string
		method, path   string
		body           any
		expectedStatus int
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name: "duplicate email", method: "POST", path: "/api/auth/register",
			body:           map[string]string{"name": "Ana", "email": "ana@example.com", "password": "Secret#123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "weak password", method: "POST", path: "/api/auth/register",
			body:           map[string]string{"name": "Bo", "email": "bo@example.com", "password": "secret#123"},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				errs := body["errors"].(map[string]any)
				assert.Equal(t, "password must contain at least one uppercase letter.", errs["password"])
			},
		},
		{
			name: "unknown email", method: "POST", path: "/api/auth/login",
			body:           map[string]string{"email": "ghost@example.com", "password": "Secret#123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing login fields", method: "POST", path: "/api/auth/login",
			body:           map[string]string{"email": "ana@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "google token rejected", method: "POST", path: "/api/auth/google",
			body:           map[string]string{"credential": "token"},
			expectedStatus: http.StatusUnauthorized,
		},
		{name: "me without token", method: "GET", path: "/api/auth/me", expectedStatus: http.StatusUnauthorized},
		{name: "checkout without token", method: "POST", path: "/api/orders", body: map[string]any{}, expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := api.do(tc.method, tc.path, "", tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())
			assert.NotEmpty(t, body["message"])
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
	assert.Equal(t, 1, api.mem.CountUsers())
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	api := newTestAPI(t)
	customer := api.mem.AddUser(models.User{Name: "Ana", Email: "ana@example.com"})
	admin := api.mem.AddUser(models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin})

	routes := []struct{ method, path string }{
		{"POST", "/api/products"},
		{"PUT", "/api/products/1"},
		{"DELETE", "/api/products/1"},
		{"POST", "/api/categories"},
		{"PUT", "/api/categories/1"},
		{"GET", "/api/orders/admin"},
		{"PUT", "/api/orders/1/status"},
		{"GET", "/api/users/admin"},
		{"PUT", "/api/users/admin/1"},
		{"DELETE", "/api/users/admin/1"},
		{"GET", "/api/order-details"},
		{"GET", "/api/order-details/1"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec, _ := api.do(rt.method, rt.path, "", map[string]any{})
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec, _ = api.do(rt.method, rt.path, api.tokenFor(customer), map[string]any{})
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}

	rec, body := api.do("GET", "/api/orders/admin", api.tokenFor(admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "orders")
	assert.EqualValues(t, 1, body["currentPage"])
}

func TestProductCatalog(t *testing.T) {
	api := newTestAPI(t)
	c, p := api.seedCatalog()
	hidden := api.mem.AddProduct(models.Product{Name: "Hidden", Price: decimal.NewFromInt(1), CategoryID: c.ID, Active: false})

	rec, body := api.do("GET", fmt.Sprintf("/api/products?name=go&category=%d&page=1&limit=5", c.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalItems"])
	assert.EqualValues(t, 1, body["totalPages"])
	assert.EqualValues(t, 1, body["currentPage"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
	first := products[0].(map[string]any)
	assert.Equal(t, "Books", first["category_name"])
	assert.Equal(t, services.PlaceholderProductImageURL, first["image_url"])

	rec, body = api.do("GET", fmt.Sprintf("/api/products/%d", p.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "$ 10,00", body["formatted_price"])

	rec, _ = api.do("GET", fmt.Sprintf("/api/products/%d", hidden.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do("GET", "/api/products?category=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do("GET", "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Len(t, categories, 1)
}

func TestAdminProductLifecycle(t *testing.T) {
	api := newTestAPI(t)
	c, _ := api.seedCatalog()
	admin := api.mem.AddUser(models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin})
	token := api.tokenFor(admin)

	form := &bytes.Buffer{}
	w := multipart.NewWriter(form)
	for k, v := range map[string]string{
		"name":        "Gopher Plush",
		"description": "Soft",
		"price":       "25.50",
		"stock":       "7",
		"category_id": fmt.Sprint(c.ID),
		"offer":       "true",
		"discount":    "20",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("image", "gopher.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("fake-png"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/products", form)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Product struct {
			ID       uint    `json:"id"`
			ImageURL string  `json:"image_url"`
			Price    float64 `json:"price"`
		} `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.Product.ImageURL, "http://shop.test/uploads/"), created.Product.ImageURL)
	assert.Equal(t, 25.5, created.Product.Price)
	assert.NotContains(t, rec.Body.String(), "final_price")

	saved := filepath.Join(api.env.UploadDir, filepath.Base(created.Product.ImageURL))
	_, err = os.Stat(saved)
	assert.NoError(t, err)

	rec, body := api.do("PUT", fmt.Sprintf("/api/products/%d", created.Product.ID), token, map[string]any{"stock": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := body["product"].(map[string]any)
	assert.EqualValues(t, 2, updated["stock"])
	assert.Equal(t, "Gopher Plush", updated["name"])

	toys := api.mem.AddCategory(models.Category{Name: "Toys", Active: true})
	rec, body = api.do("PUT", fmt.Sprintf("/api/products/%d", created.Product.ID), token, map[string]any{"categoryId": toys.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, toys.ID, body["product"].(map[string]any)["category_id"])

	rec, body = api.do("POST", "/api/products", token, map[string]any{
		"name": "Kite", "description": "Flies", "price": 12.5, "stock": 1, "categoryId": toys.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Toys", body["product"].(map[string]any)["category_name"])

	rec, _ = api.do("PUT", "/api/products/999", token, map[string]any{"stock": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do("POST", "/api/products", token, map[string]any{"name": "Incomplete"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do("DELETE", fmt.Sprintf("/api/products/%d", created.Product.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = api.do("GET", fmt.Sprintf("/api/products/%d", created.Product.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderAdministration(t *testing.T) {
	api := newTestAPI(t)
	_, product := api.seedCatalog()
	customer := api.mem.AddUser(models.User{Name: "Ana", Email: "ana@example.com"})
	stranger := api.mem.AddUser(models.User{Name: "Bo", Email: "bo@example.com"})
	admin := api.mem.AddUser(models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin})

	rec, body := api.do("POST", "/api/orders", api.tokenFor(customer), map[string]any{
		"items": []map[string]any{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := uint(body["order"].(map[string]any)["id"].(float64))
	orderPath := fmt.Sprintf("/api/orders/%d", orderID)

	rec, _ = api.do("GET", orderPath, api.tokenFor(stranger), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = api.do("GET", orderPath, api.tokenFor(admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do("GET", "/api/orders/999", api.tokenFor(admin), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	statusPath := orderPath + "/status"
	rec, _ = api.do("PUT", statusPath, api.tokenFor(admin), map[string]string{"state": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "pending cannot jump to shipped")

	rec, _ = api.do("PUT", statusPath, api.tokenFor(admin), map[string]string{"state": "teleported"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = api.do("PUT", statusPath, api.tokenFor(admin), map[string]string{"state": "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", body["order"].(map[string]any)["state"])

	rec, body = api.do("GET", "/api/orders/admin?state=paid", api.tokenFor(admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalItems"])

	rec, _ = api.do("GET", "/api/order-details", api.tokenFor(admin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Len(t, details, 1)

	rec, _ = api.do("DELETE", fmt.Sprintf("/api/users/admin/%d", customer.ID), api.tokenFor(admin), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "users with orders are kept")

	rec, _ = api.do("DELETE", fmt.Sprintf("/api/users/admin/%d", stranger.ID), api.tokenFor(admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do("DELETE", fmt.Sprintf("/api/users/admin/%d", stranger.ID), api.tokenFor(admin), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserAdministration(t *testing.T) {
	api := newTestAPI(t)
	admin := api.mem.AddUser(models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin, Password: "hash"})
	ana := api.mem.AddUser(models.User{Name: "Ana", Email: "ana@example.com", Password: "hash"})
	token := api.tokenFor(admin)

	rec, body := api.do("GET", "/api/users/admin?limit=1&page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["totalItems"])
	assert.EqualValues(t, 2, body["totalPages"])
	assert.NotContains(t, rec.Body.String(), "hash")

	rec, body = api.do("PUT", fmt.Sprintf("/api/users/admin/%d", ana.ID), token, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "admin", body["user"].(map[string]any)["role"])

	rec, _ = api.do("PUT", fmt.Sprintf("/api/users/admin/%d", ana.ID), token, map[string]string{"email": "root@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do("PUT", fmt.Sprintf("/api/users/admin/%d", ana.ID), token, map[string]string{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
