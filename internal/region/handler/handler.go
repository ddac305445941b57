// Package handler exposes the resolver over HTTP: the public inference
// endpoints, the rate-limited AI lookup boundary, and the JWT-protected admin
// surface for cache and custom-mapping maintenance.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"eramap/internal/platform/middleware"
	"eramap/internal/ratelimit"
	"eramap/internal/region/ai"
	"eramap/internal/region/models"
	"eramap/internal/region/store"
	dErrors "eramap/pkg/domainerrors"
	"eramap/pkg/platform/httputil"
)

const maxLookupCountries = 50

// Service defines the resolver operations the handlers need.
type Service interface {
	InferRegions(ctx context.Context, q models.Query) (models.RegionResult, error)
	ResolvePeriod(ctx context.Context, period string) (models.RegionResult, error)
	ClearCache(ctx context.Context, actor string) error
	EvictCacheEntry(ctx context.Context, key, actor string) error
	CacheStats(ctx context.Context) (store.Stats, error)
	SetMapping(ctx context.Context, period string, mapping store.CustomMapping, actor string) error
	GetMapping(ctx context.Context, period string) (store.CustomMapping, error)
	ListMappings(ctx context.Context) (map[string]store.CustomMapping, error)
	DeleteMapping(ctx context.Context, period, actor string) error
	ClearMappings(ctx context.Context, actor string) error
}

// AIClient is the slice of the remote lookup client the boundary endpoint
// proxies.
type AIClient interface {
	Enabled() bool
	FetchRegions(ctx context.Context, period string, startYear, endYear int, title string) (*ai.Response, error)
}

// Handler handles region inference endpoints.
type Handler struct {
	logger   *slog.Logger
	service  Service
	ai       AIClient
	limiter  *ratelimit.Middleware
	adminKey string
}

// New creates a region Handler. The limiter guards the AI lookup boundary
// only; nil disables rate limiting (tests).
func New(service Service, aiClient AIClient, limiter *ratelimit.Middleware, adminKey string, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		ai:       aiClient,
		limiter:  limiter,
		adminKey: adminKey,
	}
}

// Register registers the region routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	regionRouter := chi.NewRouter()
	regionRouter.Use(middleware.Recovery(h.logger))
	regionRouter.Use(middleware.RequestID)
	regionRouter.Use(middleware.ClientIP)
	regionRouter.Use(middleware.Logger(h.logger))
	regionRouter.Use(middleware.Timeout(30 * time.Second))

	regionRouter.Get("/regions/infer", h.handleInfer)
	regionRouter.Get("/regions/period/{period}", h.handlePeriod)

	if h.limiter != nil {
		regionRouter.With(h.limiter.Limit).Get("/ai/lookup", h.handleAILookup)
	} else {
		regionRouter.Get("/ai/lookup", h.handleAILookup)
	}

	regionRouter.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin(h.adminKey, h.logger))
		admin.Delete("/cache", h.handleClearCache)
		admin.Delete("/cache/{key}", h.handleEvictCacheEntry)
		admin.Get("/cache/stats", h.handleCacheStats)
		admin.Get("/mappings", h.handleListMappings)
		admin.Delete("/mappings", h.handleClearMappings)
		admin.Put("/mappings/{period}", h.handleSetMapping)
		admin.Get("/mappings/{period}", h.handleGetMapping)
		admin.Delete("/mappings/{period}", h.handleDeleteMapping)
	})

	r.Mount("/", regionRouter)
}

func (h *Handler) handleInfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()
	startYear, ok := parseYear(query.Get("startYear"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "startYear must be an integer"))
		return
	}
	endYear, ok := parseYear(query.Get("endYear"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "endYear must be an integer"))
		return
	}

	result, err := h.service.InferRegions(ctx, models.Query{
		Era:         query.Get("era"),
		StartYear:   startYear,
		EndYear:     endYear,
		Title:       query.Get("title"),
		Description: query.Get("description"),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handlePeriod(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ResolvePeriod(r.Context(), chi.URLParam(r, "period"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// lookupResponse is the AI boundary wire shape.
type lookupResponse struct {
	Type        string   `json:"type"`
	Countries   []string `json:"countries"`
	Timeframe   string   `json:"timeframe"`
	Description string   `json:"description"`
}

func (h *Handler) handleAILookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := SanitizeInput(r.URL.Query().Get("period"))
	if period == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "period parameter is required"))
		return
	}

	startYear, ok := parseYear(r.URL.Query().Get("startYear"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "startYear must be an integer"))
		return
	}
	endYear, ok := parseYear(r.URL.Query().Get("endYear"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "endYear must be an integer"))
		return
	}
	title := SanitizeInput(r.URL.Query().Get("title"))

	if h.ai == nil || !h.ai.Enabled() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "ai lookup is not configured"))
		return
	}

	resp, err := h.ai.FetchRegions(ctx, period, startYear, endYear, title)
	if err != nil {
		h.logger.WarnContext(ctx, "ai lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"period", period,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUpstream, "ai lookup failed"))
		return
	}
	if resp == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUpstream, "ai lookup returned no data"))
		return
	}

	countries := resp.Countries
	if countries == nil {
		countries = []string{}
	}
	if len(countries) > maxLookupCountries {
		countries = countries[:maxLookupCountries]
	}
	httputil.WriteJSON(w, http.StatusOK, lookupResponse{
		Type:        resp.Type,
		Countries:   countries,
		Timeframe:   resp.Timeframe,
		Description: resp.Description,
	})
}

func (h *Handler) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCache(r.Context(), middleware.GetAdminSubject(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEvictCacheEntry(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.service.EvictCacheEntry(r.Context(), key, middleware.GetAdminSubject(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CacheStats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// mappingRequest is the admin PUT body.
type mappingRequest struct {
	Countries   []string `json:"countries"`
	Timeframe   string   `json:"timeframe"`
	Description string   `json:"description"`
}

func (h *Handler) handleSetMapping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	err := h.service.SetMapping(ctx, chi.URLParam(r, "period"), store.CustomMapping{
		Countries:   req.Countries,
		Timeframe:   req.Timeframe,
		Description: req.Description,
	}, middleware.GetAdminSubject(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	mapping, err := h.service.GetMapping(r.Context(), chi.URLParam(r, "period"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, mapping)
}

func (h *Handler) handleListMappings(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListMappings(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, all)
}

func (h *Handler) handleClearMappings(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearMappings(r.Context(), middleware.GetAdminSubject(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteMapping(r.Context(), chi.URLParam(r, "period"), middleware.GetAdminSubject(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseYear(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return year, true
}
