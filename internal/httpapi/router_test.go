package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymm/catalog/internal/client"
	"ymm/catalog/internal/config"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/search"
)

type fakeTaxonomy struct {
	Taxonomy
	names            map[string]bool
	shops            []string
	deleted          []int64
	subcategoryEdits []domain.SubcategoryUpdate
	partTypeEdits    []domain.PartTypeUpdate
}

func (f *fakeTaxonomy) UpdateSubcategory(_ context.Context, id int64, in domain.SubcategoryUpdate) (*domain.Subcategory, error) {
	f.subcategoryEdits = append(f.subcategoryEdits, in)
	return &domain.Subcategory{ID: id, CategoryID: 1, Name: *in.Name}, nil
}

func (f *fakeTaxonomy) UpdatePartType(_ context.Context, id int64, in domain.PartTypeUpdate) (*domain.PartType, error) {
	f.partTypeEdits = append(f.partTypeEdits, in)
	return &domain.PartType{ID: id, SubcategoryID: 5, Name: *in.Name}, nil
}

func (f *fakeTaxonomy) Tree(_ context.Context, shop string) (domain.CategoryTree, error) {
	f.shops = append(f.shops, shop)
	return domain.CategoryTree{{ID: 1, Name: "Brakes", Subcategories: []domain.Subcategory{}}}, nil
}

func (f *fakeTaxonomy) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if f.names[in.Name] {
		return nil, domain.NewDuplicateError("category.create", "Category")
	}
	f.names[in.Name] = true
	return &domain.Category{ID: int64(len(f.names)), Name: in.Name, Shop: in.Shop}, nil
}

func (f *fakeTaxonomy) DeleteCategory(_ context.Context, id int64) error {
	if id == 404 {
		return domain.NewNotFoundError("category.delete", "Category", id)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeVehicles struct {
	options []domain.FacetOption
	err     error
	calls   []domain.VehicleSelection
}

func (f *fakeVehicles) Options(_ context.Context, stage domain.VehicleStage, sel domain.VehicleSelection) ([]domain.FacetOption, error) {
	f.calls = append(f.calls, sel)
	if !sel.Ready(stage) {
		return []domain.FacetOption{}, nil
	}
	return f.options, f.err
}

func (f *fakeVehicles) Resolve(context.Context, int, int, int) (*domain.BaseVehicle, error) {
	return nil, domain.NewNoMatchError("vehicle.resolve", "No vehicle found for this selection", domain.ErrNoSuchVehicle)
}

type fakeSearches struct {
	Searches
	sessions []string
	pages    []int
	err      error
}

func (f *fakeSearches) Search(_ context.Context, sessionID string, data domain.SearchData) (search.PageView, error) {
	f.sessions = append(f.sessions, sessionID)
	if f.err != nil {
		return search.PageView{}, f.err
	}
	return search.PageView{State: search.StateComplete, Summary: search.Summarize(1, 20, 3)}, nil
}

func (f *fakeSearches) Results(sessionID string, page int) (search.PageView, error) {
	f.pages = append(f.pages, page)
	return search.PageView{}, &domain.Error{Kind: domain.KindNotFound, Message: "No search in progress", Err: domain.ErrNotFound}
}

type fakeCart struct {
	Cart
	lines []client.CartLine
}

func (f *fakeCart) Add(_ context.Context, _ string, line client.CartLine, _ string) (*client.CartResult, error) {
	f.lines = append(f.lines, line)
	return &client.CartResult{ItemCount: 4, Cookies: []*http.Cookie{{Name: "cart", Value: "c1"}}}, nil
}

type testServer struct {
	router   *gin.Engine
	taxonomy *fakeTaxonomy
	vehicles *fakeVehicles
	searches *fakeSearches
	cart     *fakeCart
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		taxonomy: &fakeTaxonomy{names: map[string]bool{}},
		vehicles: &fakeVehicles{},
		searches: &fakeSearches{},
		cart:     &fakeCart{},
	}
	h := NewHandler(s.taxonomy, nil, s.vehicles, s.searches, s.cart, nil)
	s.router = NewRouter(config.ServerConfig{CORSOrigin: "*", AppProxyPrefix: "/apps/ymm-widget"}, time.Hour, h)
	return s
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateCategory(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/categories?shop=demo.myshopify.com", `{"name":"Brakes"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "demo.myshopify.com", body["category"].(map[string]any)["shop"])

	w = s.do(http.MethodPost, "/api/categories", `{"name":"Brakes"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "already exists")
	assert.Equal(t, "validation", body["kind"])
}

func TestCreateCategoryValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/categories", `{"name":"   "}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", decode(t, w)["error"])
	assert.Empty(t, s.taxonomy.names)
}

func TestDeleteCategory(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodDelete, "/api/categories/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{7}, s.taxonomy.deleted)

	w = s.do(http.MethodDelete, "/api/categories/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/categories/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicCategories(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/categories/public?shop=demo.myshopify.com",
		"/apps/ymm-widget/api/categories/public?shop=demo.myshopify.com",
	} {
		w := s.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Len(t, decode(t, w)["categories"], 1)
	}
	assert.Equal(t, []string{"demo.myshopify.com", "demo.myshopify.com"}, s.taxonomy.shops)

	w := s.do(http.MethodOptions, "/api/categories/public", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestVehicleOptionsNotReady(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/vehicle/makes?region=1&type=5,6,7", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["enabled"])
	assert.Empty(t, body["options"])
	require.Len(t, s.vehicles.calls, 1)
	assert.Equal(t, []int{5, 6, 7}, s.vehicles.calls[0].VehicleTypeIDs)

	w = s.do(http.MethodGet, "/api/vehicle/makes?year=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveNoMatch(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/vehicle/resolve", `{"year":2020,"makeId":54,"modelId":660}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no_match", body["kind"])
	assert.Equal(t, "No vehicle found for this selection", body["error"])
}

func TestSearchSession(t *testing.T) {
	s := newTestServer(t)
	payload := `{"year":2020,"makeId":54,"modelId":660,"baseVehicleId":5911}`

	w := s.do(http.MethodPost, "/api/search", payload, "X-Session-Id", "sess-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", w.Header().Get("X-Session-Id"))
	assert.Equal(t, "complete", decode(t, w)["results"].(map[string]any)["state"])

	w = s.do(http.MethodPost, "/api/search", payload)
	require.Equal(t, http.StatusOK, w.Code)
	issued := w.Header().Get("X-Session-Id")
	assert.NotEmpty(t, issued)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "ymm_session="+issued)

	w = s.do(http.MethodPost, "/api/search", payload, "Cookie", "ymm_session=from-cookie")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"sess-1", issued, "from-cookie"}, s.searches.sessions)
}

func TestSearchErrors(t *testing.T) {
	s := newTestServer(t)

	s.searches.err = domain.NewConfigurationError("fitment.key", "Fitment API key is not configured", domain.ErrMissingAPIKey)
	w := s.do(http.MethodPost, "/api/search", `{"year":2020,"makeId":54,"modelId":660}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Fitment API key is not configured", decode(t, w)["error"])

	s.searches.err = &domain.FetchFailure{Page: 1, Status: 500}
	w = s.do(http.MethodPost, "/api/search", `{"year":2020,"makeId":54,"modelId":660}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = s.do(http.MethodPost, "/api/search", `{"year":2020}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "makeId is required", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/api/search/results?page=2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.do(http.MethodGet, "/api/search/results", "")
	assert.Equal(t, []int{2, 0}, s.searches.pages, "no page query is passed on as 0")
}

func TestAddToCart(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/cart/add", `{"variantId":11,"quantity":2}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["itemCount"])
	assert.Equal(t, []client.CartLine{{VariantID: 11, Quantity: 2}}, s.cart.lines)

	var cartCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "cart" && c.Value == "c1" {
			cartCookie = true
		}
	}
	assert.True(t, cartCookie, "storefront cart cookie is passed back")
}

func TestUpdateWithoutParentID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/api/subcategories/5", `{"name":"Rotors","description":"d","order":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Rotors", decode(t, w)["subcategory"].(map[string]any)["name"])
	require.Len(t, s.taxonomy.subcategoryEdits, 1)
	edit := s.taxonomy.subcategoryEdits[0]
	assert.Equal(t, "d", *edit.Description)
	assert.Equal(t, 2, *edit.Order)

	w = s.do(http.MethodPut, "/api/parttypes/9", `{"name":"Rotors"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, s.taxonomy.partTypeEdits, 1)
	assert.Nil(t, s.taxonomy.partTypeEdits[0].TerminologyID)
	assert.Nil(t, s.taxonomy.partTypeEdits[0].Description)
	assert.Nil(t, s.taxonomy.partTypeEdits[0].Order)

	w = s.do(http.MethodPut, "/api/parttypes/9", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, s.taxonomy.partTypeEdits, 1)
}
