package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalil-cloud/dalil/internal/domain"
	healthuc "github.com/dalil-cloud/dalil/internal/usecase/health"
	searchuc "github.com/dalil-cloud/dalil/internal/usecase/search"
)

// --- Mocks ---

type mockSource struct {
	records []domain.Business
	err     error
}

func (m *mockSource) Fetch(_ context.Context, _ domain.FetchHint) ([]domain.Business, error) {
	return m.records, m.err
}

type mockBackendChecker struct {
	err error
}

func (m *mockBackendChecker) HealthCheck(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, src *mockSource, backendErr error) *chi.Mux {
	t.Helper()
	searchSvc := searchuc.New(src, searchuc.NewSorter("en"))
	healthSvc := healthuc.New(nil, &mockBackendChecker{err: backendErr})
	srv := NewServer(searchSvc, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func sampleRecords() []domain.Business {
	return []domain.Business{
		{ID: 1, Name: "Noor Electronics", Category: "Electronics & Appliances", Rating: 4, Address: "Riyadh", ServiceDistance: "5 km", Verified: true},
		{ID: 2, Name: "Jeddah Furniture House", Category: "Furniture & Decor", Rating: 2, Address: "Jeddah", ServiceDistance: "20 km"},
	}
}

// --- Tests ---

func TestListBusinesses_OK(t *testing.T) {
	r := newTestServer(t, &mockSource{records: sampleRecords()}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp ListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 || resp.Meta.Total != 2 {
		t.Errorf("data = %d items, total %d", len(resp.Data), resp.Meta.Total)
	}
	if resp.Meta.Page != 1 || resp.Meta.PerPage != 12 {
		t.Errorf("meta window = %d/%d, want 1/12", resp.Meta.Page, resp.Meta.PerPage)
	}
	if resp.Suggestions != nil {
		t.Error("no ai text, suggestions must be omitted")
	}
	// Highest rated first.
	if resp.Data[0].ID != 1 {
		t.Errorf("first item = %d, want 1", resp.Data[0].ID)
	}
}

func TestListBusinesses_FilteredScenario(t *testing.T) {
	r := newTestServer(t, &mockSource{records: sampleRecords()}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses?category=electronics&distance=10", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp ListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != 1 {
		t.Errorf("expected only record 1, got %+v", resp.Data)
	}
}

func TestListBusinesses_AITextReturnsSuggestions(t *testing.T) {
	r := newTestServer(t, &mockSource{records: sampleRecords()}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses?ai=verified+electronics+in+riyadh", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp ListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Suggestions == nil {
		t.Fatal("expected echoed suggestions for ai query")
	}
	if len(resp.Suggestions.Locations) != 1 || resp.Suggestions.Locations[0] != "Riyadh" {
		t.Errorf("locations = %v", resp.Suggestions.Locations)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != 1 {
		t.Errorf("expected only the verified Riyadh record, got %+v", resp.Data)
	}
}

func TestListBusinesses_BadParameter(t *testing.T) {
	r := newTestServer(t, &mockSource{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses?rating=high", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestListBusinesses_InvalidSort(t *testing.T) {
	r := newTestServer(t, &mockSource{records: sampleRecords()}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses?sort=price", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("code = %q, want %q", errResp.Code, codeValidationFailed)
	}
}

func TestListBusinesses_UpstreamDown(t *testing.T) {
	r := newTestServer(t, &mockSource{err: domain.NewUpstreamStatus(http.StatusBadGateway)}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != codeUpstreamUnavailable {
		t.Errorf("code = %v", body["code"])
	}
	if body["upstream_status"] != float64(http.StatusBadGateway) {
		t.Errorf("upstream_status = %v", body["upstream_status"])
	}
}

func TestListBusinesses_RateLimited(t *testing.T) {
	r := newTestServer(t, &mockSource{err: domain.ErrRateLimited}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rr.Code)
	}
}

func TestListBusinesses_InternalError(t *testing.T) {
	r := newTestServer(t, &mockSource{err: errors.New("boom")}, nil)

	req := httptest.NewRequest("GET", "/api/v1/businesses", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Message != "internal error" {
		t.Errorf("internal details leaked: %q", errResp.Message)
	}
}

func TestSuggest_OK(t *testing.T) {
	r := newTestServer(t, &mockSource{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/suggest?q=good+furniture+within+25+km", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp SuggestResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.Categories) != 1 || resp.Data.Categories[0] != "Furniture & Decor" {
		t.Errorf("categories = %v", resp.Data.Categories)
	}
	if resp.Data.MinRating == nil || *resp.Data.MinRating != 4 {
		t.Errorf("min rating = %v, want 4", resp.Data.MinRating)
	}
	if resp.Data.MaxDistanceKM == nil || *resp.Data.MaxDistanceKM != 25 {
		t.Errorf("max distance = %v, want 25", resp.Data.MaxDistanceKM)
	}
}

func TestSuggest_MissingQuery(t *testing.T) {
	r := newTestServer(t, &mockSource{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/suggest", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestListCategories_OK(t *testing.T) {
	r := newTestServer(t, &mockSource{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/categories", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp CategoriesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) == 0 {
		t.Fatal("expected canonical categories")
	}
	if resp.Data[0].ID != "electronics" {
		t.Errorf("first category = %+v", resp.Data[0])
	}
}

func TestHealthCheck_Healthy(t *testing.T) {
	r := newTestServer(t, &mockSource{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Checks["backend"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestHealthCheck_Degraded(t *testing.T) {
	r := newTestServer(t, &mockSource{}, errors.New("timeout"))

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}
