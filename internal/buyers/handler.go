package buyers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tricityrealty/leadhub/internal/csvio"
	"github.com/tricityrealty/leadhub/internal/identity"
	"github.com/tricityrealty/leadhub/pkg/logging"
)

// Handler serves the buyer CRUD endpoints.
type Handler struct {
	repo   Repository
	cache  *StatsCache
	logger *logging.Logger
}

// NewHandler creates a buyers handler. cache may be nil.
func NewHandler(repo Repository, cache *StatsCache, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, cache: cache, logger: logger}
}

// ListResponse is the envelope for GET /api/buyers.
type ListResponse struct {
	Buyers []Buyer `json:"buyers"`
	Count  int     `json:"count"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// List handles GET /api/buyers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	filter := filterFromQuery(r)
	results, err := h.repo.List(r.Context(), ownerID, filter)
	if err != nil {
		h.logger.Error("failed to list buyers", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to list buyers", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Buyers: results,
		Count:  len(results),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Create handles POST /api/buyers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	var in BuyerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in.Canonicalize()
	if violations := ValidateInput(&in); len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": violations})
		return
	}

	buyer, err := h.repo.Create(r.Context(), ownerID, &in)
	if err != nil {
		h.logger.Error("failed to create buyer", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to create buyer", http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate(r.Context(), ownerID)

	h.logger.Info("buyer created", "id", buyer.ID, "owner_id", ownerID)
	writeJSON(w, http.StatusCreated, buyer)
}

// Get handles GET /api/buyers/{buyerID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	buyer, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "buyerID"), ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "buyer not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch buyer", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to fetch buyer", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, buyer)
}

// Update handles PUT /api/buyers/{buyerID}: a full replace of mutable fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	var in BuyerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in.Canonicalize()
	if violations := ValidateInput(&in); len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": violations})
		return
	}

	buyer, err := h.repo.Update(r.Context(), chi.URLParam(r, "buyerID"), ownerID, &in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "buyer not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update buyer", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to update buyer", http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate(r.Context(), ownerID)

	writeJSON(w, http.StatusOK, buyer)
}

// Delete handles DELETE /api/buyers/{buyerID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "buyerID"), ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "buyer not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete buyer", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to delete buyer", http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate(r.Context(), ownerID)
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/buyers/stats, serving from the cache when fresh.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	if cached, ok := h.cache.Get(r.Context(), ownerID); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	stats, err := h.repo.Stats(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("failed to compute stats", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	if err := h.cache.Set(r.Context(), stats); err != nil {
		h.logger.Warn("failed to cache stats", "error", err)
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /api/buyers/export: the caller's (filtered) leads as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	filter := filterFromQuery(r)
	results, err := h.repo.List(r.Context(), ownerID, filter)
	if err != nil {
		h.logger.Error("failed to export buyers", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to export buyers", http.StatusInternalServerError)
		return
	}

	records := make([]csvio.ExportRecord, 0, len(results))
	for i := range results {
		records = append(records, exportRecord(&results[i]))
	}

	filename := "buyer-leads-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(csvio.Export(records)))
}

func exportRecord(b *Buyer) csvio.ExportRecord {
	rec := csvio.ExportRecord{
		FullName:     b.FullName,
		Email:        b.Email,
		Phone:        b.Phone,
		City:         b.City,
		PropertyType: b.PropertyType,
		Purpose:      b.Purpose,
		Timeline:     b.Timeline,
		Source:       b.Source,
		Notes:        b.Notes,
		Tags:         b.Tags,
		Status:       b.Status,
	}
	if b.BHK != nil {
		rec.BHK = strconv.Itoa(*b.BHK)
	}
	if b.BudgetMin != nil {
		rec.BudgetMin = strconv.FormatInt(*b.BudgetMin, 10)
	}
	if b.BudgetMax != nil {
		rec.BudgetMax = strconv.FormatInt(*b.BudgetMax, 10)
	}
	return rec
}

func filterFromQuery(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{
		Search:       q.Get("search"),
		City:         q.Get("city"),
		PropertyType: q.Get("property_type"),
		Status:       q.Get("status"),
		Timeline:     q.Get("timeline"),
		Limit:        defaultListLimit,
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= maxListLimit {
			filter.Limit = limit
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	return filter
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
