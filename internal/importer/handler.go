package importer

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/tricityrealty/leadhub/internal/csvio"
	"github.com/tricityrealty/leadhub/internal/identity"
	"github.com/tricityrealty/leadhub/internal/importlog"
	"github.com/tricityrealty/leadhub/pkg/logging"
)

// maxUploadBytes bounds the multipart form kept in memory. Far above the row
// cap for any realistic lead file.
const maxUploadBytes = 8 << 20

// Handler serves the CSV import endpoints.
type Handler struct {
	importer *Importer
	log      *importlog.Store
	logger   *logging.Logger
}

// NewHandler creates an import handler. log may be nil.
func NewHandler(imp *Importer, log *importlog.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{importer: imp, log: log, logger: logger}
}

// ImportCSV handles POST /api/buyers/import. Expects a multipart form with a
// "file" part. Responds with the aggregate result even on partial failure;
// only unreadable files and oversized batches fail the whole request.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.importer.Import(r.Context(), ownerID, file)
	if err != nil {
		var tooMany *ErrTooManyRows
		if errors.As(err, &tooMany) {
			http.Error(w, tooMany.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("csv import failed", "error", err, "owner_id", ownerID)
		http.Error(w, "could not read CSV file", http.StatusBadRequest)
		return
	}

	if err := h.log.Insert(r.Context(), &importlog.Record{
		OwnerID:     ownerID,
		Filename:    filepath.Base(header.Filename),
		Success:     result.Success,
		Failed:      result.Failed,
		ErrorFields: distinctFields(result.Errors),
	}); err != nil {
		h.logger.Warn("failed to record import run", "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}

// Template handles GET /api/buyers/import/template.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="buyer-leads-template.csv"`)
	_, _ = w.Write([]byte(csvio.Template()))
}

// ListRuns handles GET /api/buyers/imports.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity.OwnerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing owner identity", http.StatusUnauthorized)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.log.ListByOwner(r.Context(), ownerID, limit)
	if err != nil {
		h.logger.Error("failed to list import runs", "error", err, "owner_id", ownerID)
		http.Error(w, "failed to list import runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imports": runs, "count": len(runs)})
}

func distinctFields(errs []RowError) []string {
	seen := make(map[string]struct{}, len(errs))
	out := []string{}
	for _, e := range errs {
		if _, ok := seen[e.Field]; ok {
			continue
		}
		seen[e.Field] = struct{}{}
		out = append(out, e.Field)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
