package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"medibill/m/domain"
	"medibill/m/internal/logger"
	"medibill/m/internal/purchase"
)

// Store is the read and master-data side of persistence used by the API.
type Store interface {
	Ping(ctx context.Context) error
	GetPurchase(ctx context.Context, id int64) (*domain.Purchase, error)
	ListPurchases(ctx context.Context) ([]domain.Purchase, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	SaveSupplier(ctx context.Context, s *domain.Supplier) error
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	SaveCustomer(ctx context.Context, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	MedicineSummary(ctx context.Context) ([]domain.MedicineSummary, error)
	SearchMedicines(ctx context.Context, query string) ([]domain.MedicineSearchResult, error)
	BatchesForMedicine(ctx context.Context, medicineID int64) ([]domain.Batch, error)
	FindBatch(ctx context.Context, id int64) (*domain.Batch, error)
	BatchHistory(ctx context.Context, batchID int64) ([]domain.PurchaseItem, error)
	ExpiringBatches(ctx context.Context, cutoff domain.Date) ([]domain.Batch, error)
}

// PurchaseCreator ingests purchase documents.
type PurchaseCreator interface {
	CreatePurchase(ctx context.Context, req purchase.CreateRequest) (*domain.Purchase, error)
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store          Store
	purchases      PurchaseCreator
	logger         *zap.Logger
	validate       *validator.Validate
	allowedOrigins []string
}

// New constructs a Handler.
func New(store Store, purchases PurchaseCreator, log *zap.Logger, allowedOrigins []string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Handler{
		store:          store,
		purchases:      purchases,
		logger:         log,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		allowedOrigins: allowedOrigins,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", h.createPurchase)
			r.Get("/", h.listPurchases)
			r.Get("/{id}", h.getPurchase)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.saveSupplier)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.saveCustomer)
			r.Delete("/{id}", h.deleteCustomer)
		})

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/summary", h.medicineSummary)
			r.Get("/forSearch", h.searchMedicines)
			r.Get("/{id}/batches", h.medicineBatches)
		})

		r.Route("/batches", func(r chi.Router) {
			r.Get("/expiring", h.expiringBatches)
			r.Get("/{id}/history", h.batchHistory)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logger.FromContext(r.Context()).Warn("health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "error"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}

// Helpers

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidInput("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func (h *Handler) validateStruct(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidInput("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return domain.InvalidInput("%s", strings.Join(msgs, "; "))
}

// respondDomainError maps err onto a status code. Only domain errors expose
// their message; anything else is logged and reported generically.
func (h *Handler) respondDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		status := http.StatusBadRequest
		switch derr.Code {
		case domain.CodeNotFound:
			status = http.StatusNotFound
		case domain.CodeInvalidDate, domain.CodeInvalidQuantity:
			status = http.StatusUnprocessableEntity
		}
		respondJSON(w, status, map[string]string{"error": err.Error(), "code": derr.Code})
		return
	}
	logger.FromContext(r.Context()).Error(fallback, zap.Error(err))
	respondError(w, http.StatusInternalServerError, fallback)
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return domain.InvalidInput("invalid request body: %v", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
