package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogModel "seatcheck/internal/catalog/models"
	"seatcheck/internal/platform/middleware"
	"seatcheck/internal/transport/http/shared"
	dErrors "seatcheck/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks

// Service defines the catalog operations the HTTP layer needs.
type Service interface {
	CheckEligibility(ctx context.Context, q catalogModel.EligibilityQuery) (*catalogModel.EligibilityResult, error)
	ListColleges(ctx context.Context) ([]catalogModel.College, error)
	ListCourses(ctx context.Context) ([]catalogModel.Course, error)
	Statistics(ctx context.Context) (*catalogModel.Statistics, error)
	Cutoffs(ctx context.Context, college string) (*catalogModel.CutoffReport, error)
	Search(ctx context.Context, query string, searchType catalogModel.SearchType) (*catalogModel.SearchResults, error)
}

// Handler handles the catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	catalog Service
}

// New creates a new catalog Handler.
func New(catalog Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, catalog: catalog}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/check-eligibility", h.handleCheckEligibility)
		r.Get("/colleges", h.handleListColleges)
		r.Get("/courses", h.handleListCourses)
		r.Get("/statistics", h.handleStatistics)
		r.Get("/cutoffs/{college}", h.handleCutoffs)
		r.Get("/search", h.handleSearch)
	})
}

func (h *Handler) handleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	rank, err := queryInt(params, "rank")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	limit := 0
	if params.Get("limit") != "" {
		limit, err = queryInt(params, "limit")
		if err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	result, err := h.catalog.CheckEligibility(ctx, catalogModel.EligibilityQuery{
		Rank:     rank,
		Category: params.Get("category"),
		Quota:    params.Get("quota"),
		Limit:    limit,
	})
	if err != nil {
		h.logError(ctx, "failed to check eligibility", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListColleges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	colleges, err := h.catalog.ListColleges(ctx)
	if err != nil {
		h.logError(ctx, "failed to list colleges", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"totalColleges": len(colleges),
		"colleges":      colleges,
	})
}

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courses, err := h.catalog.ListCourses(ctx)
	if err != nil {
		h.logError(ctx, "failed to list courses", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"totalCourses": len(courses),
		"courses":      courses,
	})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.catalog.Statistics(ctx)
	if err != nil {
		h.logError(ctx, "failed to compute statistics", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"statistics": stats})
}

func (h *Handler) handleCutoffs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	college, err := url.PathUnescape(chi.URLParam(r, "college"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "invalid college name"))
		return
	}
	report, err := h.catalog.Cutoffs(ctx, college)
	if err != nil {
		h.logError(ctx, "failed to load cutoffs", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	query := params.Get("q")
	searchType, err := catalogModel.ParseSearchType(params.Get("type"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	results, err := h.catalog.Search(ctx, query, searchType)
	if err != nil {
		h.logError(ctx, "failed to search catalog", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
	})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	if dErrors.Is(err, dErrors.CodeNotFound) || dErrors.Is(err, dErrors.CodeInvalidArgument) {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err.Error())
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err.Error())
}

func queryInt(params url.Values, name string) (int, error) {
	raw := params.Get(name)
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidArgument, "%s must be a positive integer", name)
	}
	return value, nil
}
