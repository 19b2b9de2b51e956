// Package httpapi implements the HTTP surface of the matcher service.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET  /matches                          → ranked job matches
//	GET  /matches/statistics               → match quality statistics
//	GET  /jobs/{id}/similar                → jobs similar to a posting
//	GET  /pipeline/board                   → per-column counts
//	GET  /pipeline/targets                 → valid drop targets for a column
//	POST /pipeline/move                    → drag-and-drop move
//	POST /applications/{id}/status         → state-machine transition
//	POST /applications/{id}/interview      → set interview date
//	GET  /applications/{id}/history        → status-change audit log
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/matching"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/pipeline"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/statscache"
)

// Handler holds shared dependencies.
type Handler struct {
	engine  *matching.Engine
	board   *pipeline.Board
	machine *pipeline.StateMachine
	stats   *statscache.Cache // nil disables caching
	logger  *zap.Logger
}

// NewHandler returns a configured Handler. stats may be nil.
func NewHandler(engine *matching.Engine, board *pipeline.Board, machine *pipeline.StateMachine, stats *statscache.Cache, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, board: board, machine: machine, stats: stats, logger: logger}
}

// RegisterRoutes mounts all matcher-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/matches", h.handleMatches)
	mux.HandleFunc("/matches/statistics", h.handleStatistics)
	mux.HandleFunc("/jobs/", h.handleSimilarJobs)
	mux.HandleFunc("/pipeline/board", h.handleBoard)
	mux.HandleFunc("/pipeline/targets", h.handleDropTargets)
	mux.HandleFunc("/pipeline/move", h.handleMove)
	mux.HandleFunc("/applications/", h.handleApplicationAction)
}

// ─── Matching ────────────────────────────────────────────────────────────────

func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	seekerID, ok := seekerID(w, r)
	if !ok {
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	matches, err := h.engine.GetMatches(r.Context(), seekerID, filters)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, matches)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	seekerID, ok := seekerID(w, r)
	if !ok {
		return
	}

	if h.stats != nil {
		cached, err := h.stats.Get(r.Context(), seekerID)
		if err != nil {
			h.logger.Warn("read stats cache", zap.Error(err))
		} else if cached != nil {
			jsonOK(w, cached)
			return
		}
	}

	stats, err := h.engine.GetMatchStatistics(r.Context(), seekerID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	if h.stats != nil {
		if err := h.stats.Put(r.Context(), seekerID, stats); err != nil {
			h.logger.Warn("write stats cache", zap.Error(err))
		}
	}
	jsonOK(w, stats)
}

// handleSimilarJobs handles GET /jobs/{id}/similar
func (h *Handler) handleSimilarJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	seekerID, ok := seekerID(w, r)
	if !ok {
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "similar" {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	jobID := parts[1]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}

	similar, err := h.engine.GetSimilarJobs(r.Context(), jobID, seekerID, limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, similar)
}

// ─── Pipeline ────────────────────────────────────────────────────────────────

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	seekerID, ok := seekerID(w, r)
	if !ok {
		return
	}

	stats, err := h.board.GetPipelineStats(r.Context(), seekerID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, stats)
}

func (h *Handler) handleDropTargets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := seekerID(w, r); !ok {
		return
	}

	column := r.URL.Query().Get("column")
	targets, err := h.board.GetValidDropTargets(column)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"targets": targets})
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	seekerID, ok := seekerID(w, r)
	if !ok {
		return
	}

	var body struct {
		JobID      string `json:"jobId"`
		FromColumn string `json:"fromColumn"`
		ToColumn   string `json:"toColumn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.JobID == "" {
		jsonError(w, "body must contain jobId, fromColumn, toColumn", http.StatusBadRequest)
		return
	}

	res, err := h.board.HandleMove(r.Context(), seekerID, body.JobID, body.FromColumn, body.ToColumn)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, res)
}

// ─── Applications ────────────────────────────────────────────────────────────

// handleApplicationAction handles /applications/{id}/status|interview|history
func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := seekerID(w, r)
	if !ok {
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	appID := parts[1]

	switch action := parts[2]; action {
	case "status":
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.changeStatus(w, r, seekerID, appID)
	case "interview":
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setInterviewDate(w, r, seekerID, appID)
	case "history":
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.statusHistory(w, r, seekerID, appID)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, seekerID, appID string) {
	var body struct {
		Status        string  `json:"status"`
		Notes         *string `json:"notes"`
		InterviewDate *string `json:"interviewDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}

	status, err := model.ParseApplicationStatus(body.Status)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := pipeline.TransitionOptions{Notes: body.Notes}
	if body.InterviewDate != nil {
		t, err := time.Parse(time.RFC3339, *body.InterviewDate)
		if err != nil {
			jsonError(w, "interviewDate must be RFC3339", http.StatusBadRequest)
			return
		}
		opts.InterviewDate = &t
	}

	app, err := h.machine.Transition(r.Context(), appID, seekerID, status, opts)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) setInterviewDate(w http.ResponseWriter, r *http.Request, seekerID, appID string) {
	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Date == "" {
		jsonError(w, "body must contain date", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.RFC3339, body.Date)
	if err != nil {
		jsonError(w, "date must be RFC3339", http.StatusBadRequest)
		return
	}

	app, err := h.machine.SetInterviewDate(r.Context(), appID, seekerID, date)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) statusHistory(w http.ResponseWriter, r *http.Request, seekerID, appID string) {
	history, err := h.machine.GetStatusHistory(r.Context(), appID, seekerID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	jsonOK(w, history)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func seekerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("x-user-id")
	if id == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func parseFilters(r *http.Request) (matching.Filters, error) {
	q := r.URL.Query()
	var f matching.Filters

	if raw := q.Get("minScore"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 100 {
			return f, fmt.Errorf("minScore must be a number between 0 and 100")
		}
		f.MinScore = v
	}
	if raw := q.Get("maxResults"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return f, fmt.Errorf("maxResults must be a positive integer")
		}
		f.MaxResults = v
	}
	if raw := q.Get("includeApplied"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("includeApplied must be a boolean")
		}
		f.IncludeApplied = v
	}
	for _, raw := range splitCSV(q.Get("tiers")) {
		tier, err := model.ParseExperienceTier(raw)
		if err != nil {
			return f, err
		}
		f.Tiers = append(f.Tiers, tier)
	}
	f.Locations = splitCSV(q.Get("locations"))
	f.Keywords = splitCSV(q.Get("keywords"))

	return f, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// writeDomainError maps domain errors to HTTP codes. Anything unrecognized
// is an internal error and gets logged.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidTransition *pipeline.InvalidTransitionError
		invalidColumn     *pipeline.InvalidColumnError
		duplicate         *pipeline.DuplicateApplicationError
	)

	switch {
	case errors.Is(err, matching.ErrProfileNotFound),
		errors.Is(err, matching.ErrJobNotFound),
		errors.Is(err, pipeline.ErrApplicationNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, pipeline.ErrUnauthorized):
		jsonError(w, err.Error(), http.StatusForbidden)
	case errors.As(err, &invalidTransition),
		errors.As(err, &invalidColumn),
		errors.Is(err, pipeline.ErrCanOnlyApplyFromAvailable),
		errors.Is(err, pipeline.ErrInvalidState):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &duplicate):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("internal error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
