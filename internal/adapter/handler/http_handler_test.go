package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MahmoodAbuGneam/BECS-System/internal/adapter/storage"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/service"
)

func newTestHandler(t *testing.T, stock map[domain.BloodType]int) *HTTPHandler {
	t.Helper()

	store := storage.NewMemoryStore(nil)
	for bt, units := range stock {
		if err := store.SetStock(context.Background(), bt, units); err != nil {
			t.Fatalf("seed stock: %v", err)
		}
	}

	engine := service.NewAllocationEngine(store, storage.NewMemoryLedger(), 100)
	t.Cleanup(engine.Close)

	go func() {
		for range engine.Transactions() {
		}
	}()

	return NewHTTPHandler(engine)
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	w := httptest.NewRecorder()
	handlerFunc(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) OperationHTTPResponse {
	t.Helper()

	var resp OperationHTTPResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestRecordDonation_HTTP(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(t, h.RecordDonation, DonationHTTPRequest{
		DonorID:   "1",
		FullName:  "Jane",
		BloodType: "B+",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.Message != "Donation recorded successfully!" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRecordDonation_HTTP_InvalidBloodType(t *testing.T) {
	h := newTestHandler(t, nil)

	w := postJSON(t, h.RecordDonation, DonationHTTPRequest{
		DonorID:   "1",
		FullName:  "Jane",
		BloodType: "C+",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Success {
		t.Error("expected failure response")
	}
}

func TestRecordDonation_HTTP_BadBody(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.RecordDonation(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRecordDonation_HTTP_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.RecordDonation(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestRoutineDistribution_HTTP_Success(t *testing.T) {
	h := newTestHandler(t, map[domain.BloodType]int{domain.APositive: 10})

	w := postJSON(t, h.RoutineDistribution, RoutineHTTPRequest{BloodType: "A+", Units: 4})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.UnitsProvided != 4 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRoutineDistribution_HTTP_InsufficientStock(t *testing.T) {
	h := newTestHandler(t, map[domain.BloodType]int{
		domain.ABNegative: 2,
		domain.ONegative:  4,
	})

	w := postJSON(t, h.RoutineDistribution, RoutineHTTPRequest{BloodType: "AB-", Units: 5})

	// Domain failures are 200 with success=false; 400 is for invalid input
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Success {
		t.Fatal("expected failure response")
	}
	if resp.Message != "Insufficient stock. Only 2 units available." {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if len(resp.Alternatives) != 1 || resp.Alternatives[0].BloodType != "O-" || resp.Alternatives[0].Available != 4 {
		t.Errorf("unexpected alternatives: %+v", resp.Alternatives)
	}
}

func TestRoutineDistribution_HTTP_ZeroUnits(t *testing.T) {
	h := newTestHandler(t, map[domain.BloodType]int{domain.APositive: 10})

	w := postJSON(t, h.RoutineDistribution, RoutineHTTPRequest{BloodType: "A+", Units: 0})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEmergencyDistribution_HTTP(t *testing.T) {
	h := newTestHandler(t, map[domain.BloodType]int{domain.ONegative: 7})

	w := postJSON(t, h.EmergencyDistribution, struct{}{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.UnitsProvided != 7 {
		t.Errorf("unexpected response: %+v", resp)
	}

	w = postJSON(t, h.EmergencyDistribution, struct{}{})
	resp = decodeResponse(t, w)
	if resp.Success {
		t.Error("expected failure on second drain")
	}
	if resp.Message != "No O- blood available for emergency distribution!" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestGetInventory_HTTP(t *testing.T) {
	h := newTestHandler(t, map[domain.BloodType]int{domain.APositive: 10, domain.ONegative: 4})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.GetInventory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var records []InventoryHTTPRecord
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(records) != len(domain.AllBloodTypes) {
		t.Fatalf("expected %d records, got %d", len(domain.AllBloodTypes), len(records))
	}
	if records[0].BloodType != "A+" || records[0].UnitsAvailable != 10 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
}

func TestRecentTransactions_HTTP(t *testing.T) {
	h := newTestHandler(t, nil)

	postJSON(t, h.RecordDonation, DonationHTTPRequest{DonorID: "1", FullName: "Jane", BloodType: "B+"})
	postJSON(t, h.RecordDonation, DonationHTTPRequest{DonorID: "2", FullName: "John", BloodType: "A+"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.RecentTransactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var txs []TransactionHTTPRecord
	if err := json.NewDecoder(w.Body).Decode(&txs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	// Newest first
	if txs[0].BloodType != "A+" || txs[1].BloodType != "B+" {
		t.Errorf("unexpected order: %+v", txs)
	}
	if txs[0].TransactionType != "donation" || txs[0].Units != 1 {
		t.Errorf("unexpected transaction: %+v", txs[0])
	}
}

func TestHealthCheck_HTTP(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
