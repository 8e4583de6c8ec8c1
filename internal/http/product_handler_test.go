package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/openshop/internal/config"
	"github.com/tuanvumaihuynh/openshop/internal/dto"
	shophttp "github.com/tuanvumaihuynh/openshop/internal/http"
	"github.com/tuanvumaihuynh/openshop/internal/http/apierr"
	"github.com/tuanvumaihuynh/openshop/internal/log"
	"github.com/tuanvumaihuynh/openshop/internal/repository/repositorytest"
	"github.com/tuanvumaihuynh/openshop/internal/service"
	"github.com/tuanvumaihuynh/openshop/pkg/validator"
)

type testServer struct {
	handler     http.Handler
	productRepo *repositorytest.ProductRepository
	outboxRepo  *repositorytest.OutboxMsgRepository
}

func defaultConfig() config.HTTP {
	return config.HTTP{
		CorsAllowedOrigins: []string{"*"},
		Pagination: config.Pagination{
			PageSize:    10,
			MaxPageSize: 100,
		},
	}
}

func newTestServer(t *testing.T, cfg config.HTTP) *testServer {
	t.Helper()

	productRepo := repositorytest.NewProductRepository()
	outboxRepo := repositorytest.NewOutboxMsgRepository()
	productSvc := service.NewProductService(repositorytest.DB{}, productRepo, outboxRepo)

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	handler, err := shophttp.New(cfg, log.Discard(), productSvc, v, nil).Handler(t.Context())
	require.NoError(t, err)

	return &testServer{
		handler:     handler,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) create(t *testing.T, body map[string]any) dto.ProductRepresentation {
	t.Helper()

	w := s.do(t, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ProductRepresentation](t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func productBody(name, sku, location string) map[string]any {
	return map[string]any{
		"name":     name,
		"sku":      sku,
		"shop":     "Main shop",
		"location": location,
		"price":    100,
		"category": "tools",
	}
}

func TestCreateAndRetrieveProduct(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	created := s.create(t, productBody("Widget", "X1", "NYC"))

	assert.Equal(t, "Widget", created.Name)
	assert.Equal(t, 0, created.Discount)
	assert.Equal(t, 0, created.Stock)
	assert.True(t, created.IsAvailable)
	assert.False(t, created.IsDelete)
	assert.Equal(t, uuid.Version(7), created.ID.Version())
	require.Len(t, created.Links, 4)
	assert.Equal(t, "http://example.com/products", created.Links[0].Href)
	assert.Equal(t, "POST", created.Links[0].Action)
	assert.Equal(t, "http://example.com/products/"+created.ID.String(), created.Links[1].Href)

	w := s.do(t, http.MethodGet, "/products/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.ProductRepresentation](t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Sku, got.Sku)
	assert.NotContains(t, w.Body.String(), "created_at")

	assert.Equal(t, []string{"product.created"}, s.outboxRepo.Topics())
}

func TestCreateProduct_DuplicateSku(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	s.create(t, productBody("Widget", "X1", "NYC"))

	w := s.do(t, http.MethodPost, "/products", productBody("Other", "X1", "LA"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PRODUCT_SKU_CONFLICT", decode[apierr.ErrorResponse](t, w).Code)
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	w := s.do(t, http.MethodPost, "/products", map[string]any{"name": "Widget", "price": "ten"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	res := decode[apierr.ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_FAILED", res.Code)
	require.NotNil(t, res.Details)
	assert.Equal(t, []apierr.FieldError{{Field: "price", Message: "a valid integer is required"}}, *res.Details)

	w = s.do(t, http.MethodPost, "/products", map[string]any{"name": "Widget"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	res = decode[apierr.ErrorResponse](t, w)
	require.NotNil(t, res.Details)
	fields := make([]string, 0, len(*res.Details))
	for _, d := range *res.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"sku", "shop", "location", "price", "category"}, fields)

	w = s.do(t, http.MethodPost, "/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MALFORMED_BODY", decode[apierr.ErrorResponse](t, w).Code)

	assert.Empty(t, s.outboxRepo.Topics())
}

func TestCreateProduct_RejectsNullsBlankDescriptionAndTrailingData(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	body := productBody("Widget", "X1", "NYC")
	body["stock"] = nil
	body["is_available"] = nil
	w := s.do(t, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	res := decode[apierr.ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_FAILED", res.Code)
	require.NotNil(t, res.Details)
	assert.ElementsMatch(t, []apierr.FieldError{
		{Field: "stock", Message: "may not be null"},
		{Field: "is_available", Message: "may not be null"},
	}, *res.Details)

	body = productBody("Widget", "X1", "NYC")
	body["description"] = ""
	w = s.do(t, http.MethodPost, "/products", body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	res = decode[apierr.ErrorResponse](t, w)
	require.NotNil(t, res.Details)
	assert.Equal(t, []apierr.FieldError{{Field: "description", Message: "may not be blank"}}, *res.Details)

	w = s.do(t, http.MethodPost, "/products",
		`{"name":"Widget","sku":"X1","shop":"S","location":"NYC","price":1,"category":"C"} garbage`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MALFORMED_BODY", decode[apierr.ErrorResponse](t, w).Code)

	assert.Empty(t, s.outboxRepo.Topics())
}

func TestRetrieveProduct_NotFound(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	for _, path := range []string{"/products/" + uuid.NewString(), "/products/not-a-uuid"} {
		w := s.do(t, http.MethodGet, path, nil)

		assert.Equal(t, http.StatusNotFound, w.Code, path)
		res := decode[apierr.ErrorResponse](t, w)
		assert.Equal(t, "PRODUCT_NOT_FOUND", res.Code)
		assert.Equal(t, "not found", res.Message)
	}
}

func TestUpdateProduct(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	created := s.create(t, productBody("Widget", "X1", "NYC"))
	path := "/products/" + created.ID.String()

	body := productBody("Widget Pro", "X1", "LA")
	body["stock"] = 7
	body["is_delete"] = true
	w := s.do(t, http.MethodPut, path, body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.ProductRepresentation](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, "LA", updated.Location)
	assert.Equal(t, 7, updated.Stock)
	assert.False(t, updated.IsDelete)

	stored, ok := s.productRepo.Stored(created.ID)
	require.True(t, ok)
	assert.False(t, stored.UpdatedAt.Before(stored.CreatedAt))
	assert.Equal(t, []string{"product.created", "product.updated"}, s.outboxRepo.Topics())
}

func TestUpdateProduct_MissingFieldLeavesRecordUnchanged(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	created := s.create(t, productBody("Widget", "X1", "NYC"))
	path := "/products/" + created.ID.String()

	body := productBody("Renamed", "X1", "LA")
	delete(body, "price")
	w := s.do(t, http.MethodPut, path, body)

	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.ProductRepresentation](t, w)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, "NYC", got.Location)
	assert.Equal(t, 100, got.Price)
}

func TestUpdateProduct_SkuConflict(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	s.create(t, productBody("Widget", "X1", "NYC"))
	other := s.create(t, productBody("Gadget", "X2", "LA"))

	w := s.do(t, http.MethodPut, "/products/"+other.ID.String(), productBody("Gadget", "X1", "LA"))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateProduct_MissingProductWinsOverInvalidBody(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	w := s.do(t, http.MethodPut, "/products/"+uuid.NewString(), map[string]any{})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteProduct_SoftDeletes(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	created := s.create(t, productBody("Widget", "X1", "NYC"))
	path := "/products/" + created.ID.String()

	w := s.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	stored, ok := s.productRepo.Stored(created.ID)
	require.True(t, ok)
	assert.True(t, stored.IsDelete)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, productBody("Widget", "X1", "NYC")).Code)

	page := decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products", nil))
	assert.Equal(t, 0, page.Count)
	assert.Empty(t, page.Products)

	assert.Equal(t, []string{"product.created", "product.deleted"}, s.outboxRepo.Topics())
}

func TestListProducts_Pagination(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	for i := 1; i <= 5; i++ {
		s.create(t, productBody(fmt.Sprintf("p%d", i), fmt.Sprintf("S%d", i), "NYC"))
	}

	w := s.do(t, http.MethodGet, "/products?page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page1 := decode[dto.ProductPage](t, w)
	assert.Equal(t, 5, page1.Count)
	require.Len(t, page1.Products, 2)
	assert.Equal(t, "p1", page1.Products[0].Name)
	require.NotNil(t, page1.Next)
	assert.Equal(t, "http://example.com/products?page=2&page_size=2", *page1.Next)
	assert.Nil(t, page1.Previous)

	page2 := decode[dto.ProductPage](t, s.do(t, http.MethodGet, *page1.Next, nil))
	require.Len(t, page2.Products, 2)
	assert.Equal(t, "p3", page2.Products[0].Name)
	require.NotNil(t, page2.Previous)
	assert.Equal(t, "http://example.com/products?page_size=2", *page2.Previous)
	require.NotNil(t, page2.Next)
	assert.Equal(t, "http://example.com/products?page=3&page_size=2", *page2.Next)

	page3 := decode[dto.ProductPage](t, s.do(t, http.MethodGet, *page2.Next, nil))
	require.Len(t, page3.Products, 1)
	assert.Equal(t, "p5", page3.Products[0].Name)
	assert.Nil(t, page3.Next)
	require.NotNil(t, page3.Previous)
	assert.Equal(t, "http://example.com/products?page=2&page_size=2", *page3.Previous)

	last := decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products?page_size=2&page=last", nil))
	require.Len(t, last.Products, 1)
	assert.Equal(t, "p5", last.Products[0].Name)

	for _, path := range []string{"/products?page_size=2&page=4", "/products?page=0", "/products?page=abc"} {
		w := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "INVALID_PAGE", decode[apierr.ErrorResponse](t, w).Code, path)
	}
}

func TestListProducts_PageSizeClampedAndDefaulted(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pagination = config.Pagination{PageSize: 2, MaxPageSize: 3}
	s := newTestServer(t, cfg)
	for i := 1; i <= 5; i++ {
		s.create(t, productBody(fmt.Sprintf("p%d", i), fmt.Sprintf("S%d", i), "NYC"))
	}

	assert.Len(t, decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products?page_size=50", nil)).Products, 3)
	assert.Len(t, decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products?page_size=-1", nil)).Products, 2)
	assert.Len(t, decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products?page_size=abc", nil)).Products, 2)
}

func TestListProducts_RepeatedParamsUseLastValue(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	s.create(t, productBody("Widget", "X1", "NYC"))
	s.create(t, productBody("Gadget", "X2", "LA"))
	s.create(t, productBody("Widget mini", "X3", "LA"))

	tests := []struct {
		path      string
		wantCount int
		wantLen   int
	}{
		{"/products?name=gadg&name=widg", 2, 2},
		{"/products?location=NYC&location=LA", 2, 2},
		{"/products?page_size=1&page_size=2", 3, 2},
		{"/products?page_size=2&page=9&page=2", 3, 1},
	}

	for _, tt := range tests {
		w := s.do(t, http.MethodGet, tt.path, nil)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", tt.path, w.Body.String())

		page := decode[dto.ProductPage](t, w)
		assert.Equal(t, tt.wantCount, page.Count, tt.path)
		assert.Len(t, page.Products, tt.wantLen, tt.path)
	}
}

func TestListProducts_Unpaginated(t *testing.T) {
	cfg := defaultConfig()
	cfg.Pagination.PageSize = 0
	s := newTestServer(t, cfg)
	s.create(t, productBody("Widget", "X1", "NYC"))

	w := s.do(t, http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 1)
	assert.Contains(t, body, "products")
}

func TestListProducts_Ordering(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	for i, name := range []string{"b", "a", "c"} {
		body := productBody(name, fmt.Sprintf("S%d", i), "NYC")
		body["price"] = 10 * (i + 1)
		s.create(t, body)
	}

	names := func(path string) []string {
		page := decode[dto.ProductPage](t, s.do(t, http.MethodGet, path, nil))
		out := make([]string, 0, len(page.Products))
		for _, p := range page.Products {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, names("/products"))
	assert.Equal(t, []string{"c", "a", "b"}, names("/products?ordering=-price"))
	assert.Equal(t, []string{"a", "b", "c"}, names("/products?ordering=unknown"))
}

func TestProductScenario(t *testing.T) {
	s := newTestServer(t, defaultConfig())
	a := s.create(t, productBody("Widget", "X1", "NYC"))

	page := decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products?name=widg", nil))
	require.Len(t, page.Products, 1)
	assert.Equal(t, a.ID, page.Products[0].ID)

	page = decode[dto.ProductPage](t, s.do(t, http.MethodGet, "/products?location=LA", nil))
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/products/"+a.ID.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/products/"+a.ID.String(), nil).Code)

	w := s.do(t, http.MethodPost, "/products", productBody("Widget again", "X1", "NYC"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLinks_ForwardedProto(t *testing.T) {
	request := func(s *testServer) dto.ProductPage {
		req := httptest.NewRequest(http.MethodGet, "/products?page_size=1", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[dto.ProductPage](t, w)
	}

	direct := newTestServer(t, defaultConfig())
	direct.create(t, productBody("Widget", "X1", "NYC"))
	direct.create(t, productBody("Gadget", "X2", "LA"))

	page := request(direct)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.com/products?page=2&page_size=1", *page.Next)
	assert.Equal(t, "http://example.com/products", page.Products[0].Links[0].Href)

	cfg := defaultConfig()
	cfg.TrustForwardedProto = true
	proxied := newTestServer(t, cfg)
	proxied.create(t, productBody("Widget", "X1", "NYC"))
	proxied.create(t, productBody("Gadget", "X2", "LA"))

	page = request(proxied)
	require.NotNil(t, page.Next)
	assert.Equal(t, "https://example.com/products?page=2&page_size=1", *page.Next)
	assert.Equal(t, "https://example.com/products", page.Products[0].Links[0].Href)
}

func TestTrailingSlash(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	w := s.do(t, http.MethodPost, "/products/", productBody("Widget", "X1", "NYC"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.ProductRepresentation](t, w)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/products/", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/products/"+created.ID.String()+"/", nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	w := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.do(t, http.MethodGet, "/products", nil)
	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `openshop_http_requests_total{method="GET",route="/products",status="200"} 1`)
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(t, defaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	assert.Equal(t, "corr-1", w.Header().Get("X-Correlation-ID"))

	w = s.do(t, http.MethodGet, "/products", nil)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}
