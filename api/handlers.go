/*
handlers.go - HTTP API handlers for the reporting period engine

PURPOSE:
  Exposes period construction via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the factory and period packages.

ENDPOINTS:
  Periods:
    GET    /api/periods                Build from query parameters
    POST   /api/periods                Build from a JSON definition
    GET    /api/periods/render         Text dump of the interval tree
    POST   /api/periods/prorate        Split a total across buckets

  Presets:
    GET    /api/presets                List presets
    GET    /api/presets/{id}           Get a preset
    GET    /api/presets/{id}/interval  Build a preset (optional ?reference=)

  Rollovers:
    GET    /api/rollovers              Preset windows that moved on

QUERY PARAMETERS:
  length, precision, reference, timezone - see factory.DefinitionJSON

REQUEST FLOW:
  1. Parse HTTP request into a DefinitionJSON
  2. Resolve and validate via DefinitionFactory
  3. Build the interval
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid length, precision, timezone, reference or body
  - 404: Unknown preset
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/store"
)

const defaultProratePlaces int32 = 2

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Factory   *factory.DefinitionFactory
	Presets   store.PresetStore
	Scheduler *RolloverScheduler // optional
	Logger    zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(f *factory.DefinitionFactory, presets store.PresetStore, logger zerolog.Logger) *Handler {
	return &Handler{
		Factory: f,
		Presets: presets,
		Logger:  logger,
	}
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// GetPeriod builds an interval from query parameters.
// GET /api/periods?length=3&precision=month&reference=2024-03-15
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	def, err := definitionFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondInterval(w, r, def)
}

// PostPeriod builds an interval from a JSON definition body.
// POST /api/periods
func (h *Handler) PostPeriod(w http.ResponseWriter, r *http.Request) {
	var def factory.DefinitionJSON
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", factory.ErrInvalidDefinition, err))
		return
	}
	h.respondInterval(w, r, def)
}

// RenderPeriod returns the interval tree as plain text.
// GET /api/periods/render
func (h *Handler) RenderPeriod(w http.ResponseWriter, r *http.Request) {
	def, err := definitionFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	iv, err := h.Factory.FromJSON(def)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(iv.Render()))
}

// ProratePeriod splits a total across the interval's buckets by day count.
// POST /api/periods/prorate
func (h *Handler) ProratePeriod(w http.ResponseWriter, r *http.Request) {
	var req ProrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", factory.ErrInvalidDefinition, err))
		return
	}

	places := defaultProratePlaces
	if req.Places != nil {
		places = *req.Places
	}
	if places < 0 {
		h.writeError(w, r, fmt.Errorf("%w: places must not be negative", factory.ErrInvalidDefinition))
		return
	}

	iv, err := h.Factory.FromJSON(req.Definition)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	shares := iv.Prorate(req.Total, places)
	buckets := iv.Buckets()
	resp := ProrateResponse{
		Label:   iv.Label(),
		Total:   req.Total,
		Days:    iv.Days(),
		Buckets: make([]ProratedBucketDTO, len(buckets)),
	}
	for i, b := range buckets {
		dto := NewIntervalDTO(b)
		resp.Buckets[i] = ProratedBucketDTO{
			Key:    dto.Key,
			Label:  dto.Label,
			Start:  dto.Start,
			End:    dto.End,
			Days:   dto.Days,
			Amount: shares[i],
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondInterval(w http.ResponseWriter, r *http.Request, def factory.DefinitionJSON) {
	iv, err := h.Factory.FromJSON(def)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.Logger.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Int("length", iv.PeriodLength()).
		Str("precision", iv.Precision().String()).
		Str("interval", iv.String()).
		Msg("period built")

	writeJSON(w, http.StatusOK, NewIntervalDTO(iv))
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns all presets.
// GET /api/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.Presets.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = toPresetDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPreset returns one preset.
// GET /api/presets/{id}
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := h.Presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPresetDTO(p))
}

// GetPresetInterval builds a preset's interval. A reference or timezone in
// the query overrides the preset's own.
// GET /api/presets/{id}/interval?reference=2024-03-15
func (h *Handler) GetPresetInterval(w http.ResponseWriter, r *http.Request) {
	p, err := h.Presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	def := p.Definition
	q := r.URL.Query()
	if ref := q.Get("reference"); ref != "" {
		def.Reference = ref
	}
	if tz := q.Get("timezone"); tz != "" {
		def.Timezone = tz
	}
	h.respondInterval(w, r, def)
}

// ListRollovers returns the rollovers seen by the scheduler, oldest first.
// GET /api/rollovers
func (h *Handler) ListRollovers(w http.ResponseWriter, r *http.Request) {
	rollovers := []Rollover{}
	if h.Scheduler != nil {
		rollovers = h.Scheduler.Rollovers()
	}
	writeJSON(w, http.StatusOK, rollovers)
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func definitionFromQuery(r *http.Request) (factory.DefinitionJSON, error) {
	q := r.URL.Query()
	def := factory.DefinitionJSON{
		Precision: q.Get("precision"),
		Reference: q.Get("reference"),
		Timezone:  q.Get("timezone"),
	}
	if s := q.Get("length"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return def, fmt.Errorf("%w: length %q is not an integer", factory.ErrInvalidDefinition, s)
		}
		def.Length = &n
	}
	return def, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrPresetNotFound):
		return http.StatusNotFound
	case factory.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := http.StatusText(status)
	if status == http.StatusInternalServerError {
		h.Logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: message, Details: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
