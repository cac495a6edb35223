package api

import (
	"net/http"

	"medibill/m/internal/purchase"
)

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchase.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondDomainError(w, r, err, "failed to create purchase")
		return
	}

	created, err := h.purchases.CreatePurchase(r.Context(), req)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to create purchase")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.store.ListPurchases(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "failed to list purchases")
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *Handler) getPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to load purchase")
		return
	}
	p, err := h.store.GetPurchase(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to load purchase")
		return
	}
	respondJSON(w, http.StatusOK, p)
}
