package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatbazar/hatbazar/internal/domain"
	"github.com/hatbazar/hatbazar/internal/handler/api"
	"github.com/hatbazar/hatbazar/internal/memory"
	"github.com/hatbazar/hatbazar/internal/middleware"
	"github.com/hatbazar/hatbazar/internal/routes"
	"github.com/hatbazar/hatbazar/internal/service"
)

var testSecret = []byte("test-secret")

type app struct {
	e        *echo.Echo
	products *memory.CatalogStore
}

func newApp(seed ...domain.Product) *app {
	products := memory.NewCatalogStore(seed...)
	electronics := memory.NewCatalogStore()
	orders := memory.NewOrderStore()

	logger := zerolog.Nop()
	productSvc := service.NewProductService(products, nil, nil, "products", logger)
	electronicsSvc := service.NewProductService(electronics, nil, nil, "electronics", logger)
	orderSvc := service.NewOrderService(orders, products, service.DemoPaymentProvider{}, nil, logger)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler(logger)
	e.Use(middleware.WithUser(testSecret))

	routes.Register(e, api.NewHandler(productSvc, electronicsSvc, orderSvc))
	return &app{e: e, products: products}
}

func token(t *testing.T, subject string, role domain.Role) string {
	t.Helper()

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (a *app) request(method, target, body, auth string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+auth)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message, field string) {
	t.Helper()

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Field   string `json:"field"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code, body.Error.Message, body.Error.Field
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", SellerID: "s1", Name: "iPhone 13 Pro", Category: "Mobile Phones", PriceCents: 9500000, Stock: 5, IsPublished: true, IsFeatured: true},
		{ID: "p2", SellerID: "s1", Name: "Walton Primo", Category: "Mobile Phones", PriceCents: 1250000, Stock: 10, IsPublished: true},
		{ID: "p3", SellerID: "s2", Name: "Draft Keyboard", Category: "Accessories", PriceCents: 500000, Stock: 3, IsPublished: false},
	}
}

func TestListProductsEnvelope(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodGet, "/api/products?limit=1&page=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Products    []domain.Product `json:"products"`
		Total       int              `json:"total"`
		TotalPages  int              `json:"totalPages"`
		CurrentPage int              `json:"currentPage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))

	assert.Equal(t, 2, page.Total, "draft product excluded from public listing")
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Products, 1)
}

func TestListProductsInvalidFilter(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodGet, "/api/products?minPrice=abc", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	code, _, field := decodeError(t, rec)
	assert.Equal(t, domain.EINVALID, code)
	assert.Equal(t, "minPrice", field)
}

func TestGetProductNotFound(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodGet, "/api/products/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	code, message, _ := decodeError(t, rec)
	assert.Equal(t, domain.ENOTFOUND, code)
	assert.NotEmpty(t, message)
}

func TestProductFilters(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodGet, "/api/products/filters", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts domain.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Mobile Phones"}, opts.Categories, "facets reflect public candidates only")
}

func TestElectronicsSameContract(t *testing.T) {
	a := newApp()

	rec := a.request(http.MethodGet, "/api/electronics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products"`)
	assert.Contains(t, rec.Body.String(), `"totalPages"`)
}

func TestSellerCreateProduct(t *testing.T) {
	a := newApp()
	payload := `{"name":"Mouse","price":150000,"category":"Accessories","stock":4,"isPublished":true}`

	rec := a.request(http.MethodPost, "/api/seller/products", payload, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.request(http.MethodPost, "/api/seller/products", payload, token(t, "u1", domain.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.request(http.MethodPost, "/api/seller/products", payload, token(t, "s1", domain.RoleSeller))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "s1", created.SellerID)
	assert.Equal(t, int64(150000), created.PriceCents)
}

func TestSellerCreateValidation(t *testing.T) {
	a := newApp()

	rec := a.request(http.MethodPost, "/api/seller/products",
		`{"name":"Mouse","category":"Accessories"}`, token(t, "s1", domain.RoleSeller))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	code, _, field := decodeError(t, rec)
	assert.Equal(t, domain.EINVALID, code)
	assert.Equal(t, "price", field)
}

func TestSellerCannotTouchForeignProduct(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodPut, "/api/seller/products/p3",
		`{"name":"hijacked"}`, token(t, "s1", domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.request(http.MethodDelete, "/api/seller/products/p3", "", token(t, "s1", domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminSeesDrafts(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodGet, "/api/admin/products", "", token(t, "a1", domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	a := newApp(seedProducts()...)
	customer := token(t, "u1", domain.RoleCustomer)
	admin := token(t, "a1", domain.RoleAdmin)

	// Place.
	rec := a.request(http.MethodPost, "/api/orders",
		`{"items":[{"productId":"p2","quantity":2}]}`, customer)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int64(2500000), order.TotalCents)

	// Another user cannot read it.
	rec = a.request(http.MethodGet, "/api/orders/"+order.ID, "", token(t, "u2", domain.RoleCustomer))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Pay.
	rec = a.request(http.MethodPost, "/api/orders/"+order.ID+"/payment/complete", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.NotEmpty(t, order.PaymentRef)

	// Admin ships it.
	rec = a.request(http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		`{"status":"shipped"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	// Illegal transition surfaces as conflict.
	rec = a.request(http.MethodPut, "/api/admin/orders/"+order.ID+"/status",
		`{"status":"paid"}`, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Owner sees it in their list.
	rec = a.request(http.MethodGet, "/api/orders", "", customer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), order.ID)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	a := newApp(seedProducts()...)

	rec := a.request(http.MethodPost, "/api/orders",
		`{"items":[{"productId":"p1","quantity":99}]}`, token(t, "u1", domain.RoleCustomer))
	require.Equal(t, http.StatusConflict, rec.Code)

	code, _, _ := decodeError(t, rec)
	assert.Equal(t, domain.ECONFLICT, code)
}

func TestHealth(t *testing.T) {
	a := newApp()

	rec := a.request(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}
