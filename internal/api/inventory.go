package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"medibill/m/domain"
)

const defaultExpiryWindowDays = 30

func (h *Handler) medicineSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.MedicineSummary(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "failed to load medicine summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respondJSON(w, http.StatusOK, []domain.MedicineSearchResult{})
		return
	}
	results, err := h.store.SearchMedicines(r.Context(), query)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to search medicines")
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) medicineBatches(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to list batches")
		return
	}
	batches, err := h.store.BatchesForMedicine(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to list batches")
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// batchHistory returns the batch together with every purchase line that fed it.
func (h *Handler) batchHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to load batch history")
		return
	}
	batch, err := h.store.FindBatch(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to load batch history")
		return
	}
	items, err := h.store.BatchHistory(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to load batch history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"batch":     batch,
		"purchases": items,
	})
}

func (h *Handler) expiringBatches(w http.ResponseWriter, r *http.Request) {
	days := defaultExpiryWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondDomainError(w, r, domain.InvalidInput("days must be a non-negative integer"), "failed to list expiring batches")
			return
		}
		days = n
	}

	cutoff := expiryCutoff(time.Now(), days)
	batches, err := h.store.ExpiringBatches(r.Context(), cutoff)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to list expiring batches")
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// expiryCutoff is the last calendar day, in UTC, of a window of days from now.
func expiryCutoff(now time.Time, days int) domain.Date {
	until := now.UTC().AddDate(0, 0, days)
	return domain.NewDate(until.Year(), until.Month(), until.Day())
}
