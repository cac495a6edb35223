package api

import (
	"net/http"
	"strings"

	"medibill/m/domain"
)

type supplierRequest struct {
	ID      int64  `json:"id" validate:"gte=0"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

type customerRequest struct {
	ID            int64  `json:"id" validate:"gte=0"`
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address"`
	Email         string `json:"email" validate:"omitempty,email"`
	PhoneNumber   string `json:"phone_number"`
	GSTNumber     string `json:"gst_number"`
	LicenseNumber string `json:"license_number"`
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.ListSuppliers(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "failed to list suppliers")
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

// saveSupplier creates a supplier, or updates it when the body carries an id.
func (h *Handler) saveSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondDomainError(w, r, err, "failed to save supplier")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validateStruct(req); err != nil {
		h.respondDomainError(w, r, err, "failed to save supplier")
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	sup := domain.Supplier{
		ID:            req.ID,
		Name:          req.Name,
		ContactNumber: strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
	}
	if err := h.store.SaveSupplier(r.Context(), &sup); err != nil {
		h.respondDomainError(w, r, err, "failed to save supplier")
		return
	}
	respondJSON(w, status, sup)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		h.respondDomainError(w, r, err, "failed to list customers")
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) saveCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondDomainError(w, r, err, "failed to save customer")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.validateStruct(req); err != nil {
		h.respondDomainError(w, r, err, "failed to save customer")
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	c := domain.Customer{
		ID:            req.ID,
		Name:          req.Name,
		Address:       req.Address,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		GSTNumber:     req.GSTNumber,
		LicenseNumber: req.LicenseNumber,
	}
	if err := h.store.SaveCustomer(r.Context(), &c); err != nil {
		h.respondDomainError(w, r, err, "failed to save customer")
		return
	}
	respondJSON(w, status, c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondDomainError(w, r, err, "failed to delete customer")
		return
	}
	if err := h.store.DeleteCustomer(r.Context(), id); err != nil {
		h.respondDomainError(w, r, err, "failed to delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
