package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/portfolio-performance/internal/api/handlers"
	"github.com/ndewijer/portfolio-performance/internal/testutil"
)

// TestCashFlowHandler_CashFlows tests the GET /api/portfolio/{uuid}/cashflow endpoint.
func TestCashFlowHandler_CashFlows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewCashFlowHandler(testutil.NewTestCashFlowService(t, db))

	t.Run("returns flows with stored signs", func(t *testing.T) {
		p := testutil.CreatePortfolio(t, db, "Flows")
		testutil.NewCashFlow(p.ID).WithDate(testutil.Date("2025-01-05")).WithAmount(1000).Build(t, db)
		testutil.NewCashFlow(p.ID).WithDate(testutil.Date("2025-02-05")).WithAmount(250.5).WithType("withdrawal").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+p.ID+"/cashflow", map[string]string{"uuid": p.ID})
		w := httptest.NewRecorder()

		handler.CashFlows(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []handlers.CashFlowResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 flows, got %d", len(response))
		}
		if response[0].Date != "2025-01-05" || response[0].Amount != 1000 {
			t.Errorf("Unexpected first flow: %+v", response[0])
		}
		if response[1].Type != "withdrawal" || response[1].Amount != 250.5 {
			t.Errorf("Unexpected second flow: %+v", response[1])
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+id+"/cashflow", map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.CashFlows(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

// TestCashFlowHandler_CreateCashFlow tests the POST /api/portfolio/{uuid}/cashflow endpoint.
//
// WHY: Unsupported types and zero amounts would corrupt the ledger, so they must
// be rejected at the boundary.
func TestCashFlowHandler_CreateCashFlow(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantRows   int
	}{
		{"creates deposit", map[string]any{"date": "2025-01-05", "amount": 1000, "type": "deposit"}, http.StatusCreated, 1},
		{"accepts decimal string amount", map[string]any{"date": "2025-01-05", "amount": "1000.25", "type": "fee"}, http.StatusCreated, 1},
		{"rejects zero amount", map[string]any{"date": "2025-01-05", "amount": 0, "type": "deposit"}, http.StatusBadRequest, 0},
		{"rejects missing amount", map[string]any{"date": "2025-01-05", "type": "deposit"}, http.StatusBadRequest, 0},
		{"rejects unknown type", map[string]any{"date": "2025-01-05", "amount": 10, "type": "dividend"}, http.StatusBadRequest, 0},
		{"rejects bad date", map[string]any{"date": "05/01/2025", "amount": 10, "type": "deposit"}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			handler := handlers.NewCashFlowHandler(testutil.NewTestCashFlowService(t, db))
			p := testutil.CreatePortfolio(t, db, "Create")

			req := testutil.NewJSONRequestWithURLParams(t, http.MethodPost, "/api/portfolio/"+p.ID+"/cashflow", tt.body, map[string]string{"uuid": p.ID})
			w := httptest.NewRecorder()

			handler.CreateCashFlow(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			testutil.AssertRowCount(t, db, "cash_flow", tt.wantRows)
		})
	}

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewCashFlowHandler(testutil.NewTestCashFlowService(t, db))
		id := testutil.MakeID()

		body := map[string]any{"date": "2025-01-05", "amount": 1000, "type": "deposit"}
		req := testutil.NewJSONRequestWithURLParams(t, http.MethodPost, "/api/portfolio/"+id+"/cashflow", body, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.CreateCashFlow(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestCashFlowHandler_DeleteCashFlow tests the DELETE /api/cashflow/{uuid} endpoint.
func TestCashFlowHandler_DeleteCashFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewCashFlowHandler(testutil.NewTestCashFlowService(t, db))

	t.Run("returns 204", func(t *testing.T) {
		p := testutil.CreatePortfolio(t, db, "Delete")
		cf := testutil.NewCashFlow(p.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/cashflow/"+cf.ID, map[string]string{"uuid": cf.ID})
		w := httptest.NewRecorder()

		handler.DeleteCashFlow(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
		testutil.AssertRowCount(t, db, "cash_flow", 0)
	})

	t.Run("returns 404 for unknown cash flow", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/cashflow/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.DeleteCashFlow(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
