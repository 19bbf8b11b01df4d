package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/portfolio-performance/internal/api"
	"github.com/ndewijer/portfolio-performance/internal/api/middleware"
	"github.com/ndewijer/portfolio-performance/internal/config"
	"github.com/ndewijer/portfolio-performance/internal/testutil"
	"github.com/rs/zerolog"
)

const testAPIKey = "router-test-key"

func newTestRouter(t *testing.T) (http.Handler, func(method, path string, body any, auth bool) *httptest.ResponseRecorder) {
	t.Helper()
	t.Setenv("INTERNAL_API_KEY", testAPIKey)

	db := testutil.SetupTestDB(t)
	router := api.NewRouter(api.Services{
		System:       testutil.NewTestSystemService(t, db),
		Portfolio:    testutil.NewTestPortfolioService(t, db),
		CashFlow:     testutil.NewTestCashFlowService(t, db),
		Valuation:    testutil.NewTestValuationService(t, db),
		Performance:  testutil.NewTestPerformanceService(t, db),
		Materialized: testutil.NewTestMaterializedService(t, db),
	}, &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}, zerolog.Nop())

	do := func(method, path string, body any, auth bool) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("Failed to encode body: %v", err)
			}
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}

		req := httptest.NewRequest(method, path, reader)
		if auth {
			req.Header.Set("X-API-Key", testAPIKey)
			req.Header.Set("X-Time-Token", middleware.GenerateTimeToken(testAPIKey))
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	return router, do
}

// TestRouter_Workflow tests a full record-and-report round trip through the router.
//
// WHY: Handlers are tested in isolation elsewhere. This checks that routes, UUID
// validation and write authentication are wired together.
func TestRouter_Workflow(t *testing.T) {
	_, do := newTestRouter(t)

	// Create portfolio
	w := do(http.MethodPost, "/api/portfolio", map[string]any{"name": "Workflow"}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 creating portfolio, got %d: %s", w.Code, w.Body.String())
	}
	var portfolio struct {
		ID string `json:"id"`
	}
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&portfolio)

	base := "/api/portfolio/" + portfolio.ID

	// Record history
	w = do(http.MethodPost, base+"/cashflow", map[string]any{"date": "2025-01-05", "amount": 10000, "type": "deposit"}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 creating cash flow, got %d: %s", w.Code, w.Body.String())
	}
	for _, v := range []map[string]any{
		{"date": "2025-01-31", "value": 105000},
		{"date": "2025-02-28", "value": 95000},
	} {
		w = do(http.MethodPost, base+"/valuation", v, true)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201 creating valuation, got %d: %s", w.Code, w.Body.String())
		}
	}

	// Report
	w = do(http.MethodGet, base+"/performance/monthly?asOf=2025-02-28", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 reading monthly performance, got %d: %s", w.Code, w.Body.String())
	}
	var periods []struct {
		PeriodKey string  `json:"periodKey"`
		ReturnPct float64 `json:"returnPct"`
	}
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&periods)
	if len(periods) != 2 || periods[0].ReturnPct != -100 || periods[1].ReturnPct != 950 {
		t.Errorf("Unexpected periods: %+v", periods)
	}

	// Delete
	w = do(http.MethodDelete, base, nil, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 deleting portfolio, got %d: %s", w.Code, w.Body.String())
	}
	w = do(http.MethodGet, base, nil, false)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

// TestRouter_Protection tests that writes require credentials and IDs are validated.
func TestRouter_Protection(t *testing.T) {
	_, do := newTestRouter(t)
	id := testutil.MakeID()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"create portfolio without credentials", http.MethodPost, "/api/portfolio", http.StatusUnauthorized},
		{"delete portfolio without credentials", http.MethodDelete, "/api/portfolio/" + id, http.StatusUnauthorized},
		{"create cash flow without credentials", http.MethodPost, "/api/portfolio/" + id + "/cashflow", http.StatusUnauthorized},
		{"delete cash flow without credentials", http.MethodDelete, "/api/cashflow/" + id, http.StatusUnauthorized},
		{"delete valuation without credentials", http.MethodDelete, "/api/valuation/" + id, http.StatusUnauthorized},
		{"refresh without credentials", http.MethodPost, "/api/portfolio/" + id + "/performance/refresh", http.StatusUnauthorized},
		{"invalid portfolio ID", http.MethodGet, "/api/portfolio/not-a-uuid", http.StatusBadRequest},
		{"invalid cash flow ID", http.MethodDelete, "/api/cashflow/not-a-uuid", http.StatusBadRequest},
		{"reads are public", http.MethodGet, "/api/portfolio", http.StatusOK},
		{"health is public", http.MethodGet, "/api/system/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(tt.method, tt.path, nil, false)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}
