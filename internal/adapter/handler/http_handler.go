package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MahmoodAbuGneam/BECS-System/internal/core/domain"
	"github.com/MahmoodAbuGneam/BECS-System/internal/core/service"
	"github.com/MahmoodAbuGneam/BECS-System/internal/metrics"
)

// recentTransactionLimit matches the dashboard's transaction feed depth.
const recentTransactionLimit = 10

type HTTPHandler struct {
	engine *service.AllocationEngine
}

type DonationHTTPRequest struct {
	DonorID      string `json:"donor_id"`
	FullName     string `json:"full_name"`
	BloodType    string `json:"blood_type"`
	DonationDate string `json:"donation_date,omitempty"`
}

type RoutineHTTPRequest struct {
	BloodType string `json:"blood_type"`
	Units     int    `json:"units"`
}

type AlternativeHTTPStock struct {
	BloodType string `json:"blood_type"`
	Available int    `json:"available"`
}

type OperationHTTPResponse struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	UnitsProvided int                    `json:"units_provided,omitempty"`
	Alternatives  []AlternativeHTTPStock `json:"alternatives,omitempty"`
}

type InventoryHTTPRecord struct {
	BloodType         string    `json:"blood_type"`
	UnitsAvailable    int       `json:"units_available"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LastUpdated       time.Time `json:"last_updated"`
}

type TransactionHTTPRecord struct {
	TransactionType string `json:"transaction_type"`
	BloodType       string `json:"blood_type"`
	Units           int    `json:"units"`
	Timestamp       string `json:"timestamp"`
	Notes           string `json:"notes,omitempty"`
}

func NewHTTPHandler(engine *service.AllocationEngine) *HTTPHandler {
	return &HTTPHandler{engine: engine}
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	records, err := h.engine.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, OperationHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	out := make([]InventoryHTTPRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, InventoryHTTPRecord{
			BloodType:         string(rec.BloodType),
			UnitsAvailable:    rec.UnitsAvailable,
			LowStockThreshold: rec.LowStockThreshold,
			LastUpdated:       rec.LastUpdated,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DonationHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, OperationHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	donationDate := time.Now().UTC()
	if req.DonationDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DonationDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, OperationHTTPResponse{
				Success: false,
				Message: "invalid donation_date",
			})
			return
		}
		donationDate = parsed
	}

	donor := domain.Donor{
		DonorID:      req.DonorID,
		FullName:     req.FullName,
		BloodType:    domain.BloodType(req.BloodType),
		DonationDate: donationDate,
	}

	result, err := h.engine.RecordDonation(r.Context(), donor)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.Donations.Inc()
	writeJSON(w, http.StatusOK, OperationHTTPResponse{
		Success: result.Success,
		Message: result.Message,
	})
}

func (h *HTTPHandler) RoutineDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RoutineHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, OperationHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	result, err := h.engine.RequestRoutineDistribution(r.Context(), domain.BloodType(req.BloodType), req.Units)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := OperationHTTPResponse{
		Success: result.Success,
		Message: result.Message,
	}
	if result.Success {
		metrics.Distributions.WithLabelValues("routine", "success").Inc()
		resp.UnitsProvided = result.UnitsProvided
	} else {
		metrics.Distributions.WithLabelValues("routine", "insufficient_stock").Inc()
		resp.Alternatives = make([]AlternativeHTTPStock, 0, len(result.Alternatives))
		for _, alt := range result.Alternatives {
			resp.Alternatives = append(resp.Alternatives, AlternativeHTTPStock{
				BloodType: string(alt.BloodType),
				Available: alt.Available,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) EmergencyDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.engine.RequestEmergencyDistribution(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Success {
		metrics.Distributions.WithLabelValues("emergency", "success").Inc()
	} else {
		metrics.Distributions.WithLabelValues("emergency", "no_stock").Inc()
	}

	writeJSON(w, http.StatusOK, OperationHTTPResponse{
		Success:       result.Success,
		Message:       result.Message,
		UnitsProvided: result.UnitsProvided,
	})
}

func (h *HTTPHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	txs, err := h.engine.RecentTransactions(r.Context(), recentTransactionLimit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, OperationHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	out := make([]TransactionHTTPRecord, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionHTTPRecord{
			TransactionType: string(tx.Type),
			BloodType:       string(tx.BloodType),
			Units:           tx.Units,
			Timestamp:       tx.Timestamp.Format(time.RFC3339Nano),
			Notes:           tx.Notes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	if errors.Is(err, service.ErrInvalidInput) || errors.Is(err, domain.ErrUnknownBloodType) {
		status = http.StatusBadRequest
		message = err.Error()
	}

	writeJSON(w, status, OperationHTTPResponse{
		Success: false,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
