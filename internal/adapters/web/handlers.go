package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"factory-erp/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc app.ApplicationService
	log *slog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, log *slog.Logger, allowedOrigins string, exposeMetrics bool) http.Handler {
	h := &Handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(Metrics)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	if exposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Bulk upload routes manage their own multipart body limits.
	r.Post("/api/products/bulk", h.bulkImportProducts)
	r.Post("/api/parties/bulk", h.bulkImportParties)

	// Everything else: 1 MB body limit to prevent unbounded request abuse.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)
		r.Get("/api/products/{id}", h.getProduct)
		r.Put("/api/products/{id}", h.updateProduct)
		r.Delete("/api/products/{id}", h.deleteProduct)

		r.Get("/api/parties", h.listParties)
		r.Post("/api/parties", h.createParty)
		r.Put("/api/parties/{id}", h.updateParty)
		r.Delete("/api/parties/{id}", h.deleteParty)

		r.Get("/api/production", h.listProduction)
		r.Post("/api/production", h.createProductionRecord)
		r.Put("/api/production/{id}", h.updateProductionRecord)
		r.Delete("/api/production/{id}", h.deleteProductionRecord)

		r.Get("/api/sales", h.listSalesOrders)
		r.Post("/api/sales", h.createSalesOrder)
		r.Get("/api/sales/{id}", h.getSalesOrder)
		r.Post("/api/sales/{id}/fulfill", h.fulfillSalesOrder)
		r.Put("/api/sales/{id}/cancel", h.cancelInvoice)
		r.Delete("/api/sales/{id}", h.deleteSalesOrder)

		r.Get("/api/stock-adjustments", h.listStockAdjustments)
		r.Post("/api/stock-adjustments", h.createStockAdjustment)

		r.Get("/api/inventory", h.getInventory)
		r.Get("/api/dashboard/metrics", h.getDashboardMetrics)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// idParam parses the {id} URL parameter; the bool reports success (the
// response is already written on failure).
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id in URL", "VALIDATION_ERROR", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON request body into v; the bool reports success
// (the response is already written on failure).
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return false
	}
	return true
}
