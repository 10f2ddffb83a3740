package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unowned-ai/skinlog/pkg/journal"
	"github.com/unowned-ai/skinlog/pkg/metrics"
	"github.com/unowned-ai/skinlog/pkg/skincare"
)

const maxBodyBytes = 1 << 20

// Handler serves the API routes.
type Handler struct {
	DB         *sql.DB
	Dictionary *skincare.Database
	Conditions skincare.ConditionMapper
	Trend      skincare.TrendComparator
	Metrics    metrics.Recorder
}

func (h *Handler) recorder() metrics.Recorder {
	if h.Metrics == nil {
		return metrics.Nop{}
	}
	return h.Metrics
}

type conditionRequest struct {
	Condition  string `json:"condition"`
	Prediction string `json:"prediction"`
}

// resolve returns the explicit condition, else the mapped prediction, else
// Normal.
func (c conditionRequest) resolve(mapper skincare.ConditionMapper) (skincare.Condition, error) {
	if strings.TrimSpace(c.Condition) != "" {
		return skincare.ParseCondition(c.Condition)
	}
	if strings.TrimSpace(c.Prediction) != "" {
		return mapper.Map(c.Prediction), nil
	}
	return skincare.Normal, nil
}

type analyzeRequest struct {
	conditionRequest
	Ingredients string `json:"ingredients"`
}

type createEntryRequest struct {
	Label      string    `json:"label"`
	Confidence *float64  `json:"confidence"`
	Notes      string    `json:"notes"`
	ImageFile  string    `json:"image_file"`
	CapturedAt time.Time `json:"captured_at"`
}

type createProductRequest struct {
	conditionRequest
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
}

type reanalyzeResponse struct {
	Reanalyzed int                `json:"reanalyzed"`
	Condition  skincare.Condition `json:"condition"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Ingredients) == "" {
		writeError(w, http.StatusBadRequest, "ingredients is required")
		return
	}
	condition, err := req.resolve(h.Conditions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis := skincare.Analyze(req.Ingredients, h.Dictionary, condition)
	h.recorder().RecordAnalysis(analysis)
	writeJSON(w, http.StatusOK, analysis)
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	condition, err := conditionRequest{Condition: q.Get("condition"), Prediction: q.Get("prediction")}.resolve(h.Conditions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, skincare.Recommend(h.Dictionary, condition))
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	j, ok := h.journalFromPath(w, r)
	if !ok {
		return
	}
	includeDeleted, _ := strconv.ParseBool(r.URL.Query().Get("include_deleted"))

	entries, err := journal.ListEntries(r.Context(), h.DB, j.ID, includeDeleted)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Confidence == nil {
		writeError(w, http.StatusBadRequest, "confidence is required")
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, journal.ErrEmptyLabel.Error())
		return
	}
	if err := journal.ValidateConfidence(*req.Confidence); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	j, err := journal.EnsureJournal(r.Context(), h.DB, chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, journal.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, r, err)
		return
	}

	entry, err := journal.CreateEntry(r.Context(), h.DB, j.ID, journal.NewEntry{
		Label:      req.Label,
		Confidence: *req.Confidence,
		Notes:      req.Notes,
		ImageFile:  req.ImageFile,
		CapturedAt: req.CapturedAt,
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) trend(w http.ResponseWriter, r *http.Request) {
	j, ok := h.journalFromPath(w, r)
	if !ok {
		return
	}
	result, err := journal.CompareLatest(r.Context(), h.DB, j.ID, h.Trend)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.recorder().RecordTrend(result.Trend)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := journal.ListProducts(r.Context(), h.DB)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if products == nil {
		products = []journal.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	condition, err := req.resolve(h.Conditions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := journal.CreateProduct(r.Context(), h.DB, h.Dictionary, req.Name, req.Ingredients, condition)
	if err != nil {
		if errors.Is(err, journal.ErrEmptyName) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	product, err := journal.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, journal.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	if err := journal.DeleteProduct(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, journal.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reanalyzeProducts(w http.ResponseWriter, r *http.Request) {
	var req conditionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	condition, err := req.resolve(h.Conditions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := journal.ReanalyzeProducts(r.Context(), h.DB, h.Dictionary, condition)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reanalyzeResponse{Reanalyzed: n, Condition: condition})
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	var names []string
	for _, part := range strings.Split(r.URL.Query().Get("ingredients"), ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "ingredients query parameter is required")
		return
	}
	results, err := journal.SearchProductsByIngredient(r.Context(), h.DB, h.Dictionary, names)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) journalFromPath(w http.ResponseWriter, r *http.Request) (journal.Journal, bool) {
	name := chi.URLParam(r, "name")
	j, err := journal.GetJournalByName(r.Context(), h.DB, name)
	if err != nil {
		if errors.Is(err, journal.ErrJournalNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("journal %q not found", name))
			return journal.Journal{}, false
		}
		h.internalError(w, r, err)
		return journal.Journal{}, false
	}
	return j, true
}

func idFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON treats an empty body as an empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
