package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"seatcheck/internal/platform/middleware"
	"seatcheck/internal/transport/http/shared"
	verificationModel "seatcheck/internal/verification/models"
	dErrors "seatcheck/pkg/domain-errors"
	"seatcheck/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks

// Service defines the verification operations the HTTP layer needs.
type Service interface {
	BuildSample(ctx context.Context, fileID int64, sampleRate float64, strategy verificationModel.Strategy) (*verificationModel.SampleResult, error)
	SetRecordStatus(ctx context.Context, recordID int64, status verificationModel.RecordStatus, notes, verifiedBy string) (*verificationModel.VerificationRecord, error)
	SetFileStatus(ctx context.Context, fileID int64, status verificationModel.FileStatus, verifiedBy string) (*verificationModel.ProcessedFile, error)
	ListRecordsForFile(ctx context.Context, fileID int64) ([]*verificationModel.RecordView, error)
	ListRecordsByStatus(ctx context.Context, status verificationModel.RecordStatus, limit int, fileID *int64) ([]*verificationModel.VerificationRecord, error)
	Summarize(ctx context.Context) (*verificationModel.GlobalSummary, error)
}

// Handler handles the verification endpoints.
type Handler struct {
	logger            *slog.Logger
	verification      Service
	defaultSampleRate float64
	defaultStrategy   verificationModel.Strategy
}

// New creates a new verification Handler.
func New(verification Service, logger *slog.Logger, defaultSampleRate float64, defaultStrategy verificationModel.Strategy) *Handler {
	return &Handler{
		logger:            logger,
		verification:      verification,
		defaultSampleRate: defaultSampleRate,
		defaultStrategy:   defaultStrategy,
	}
}

// Register registers the verification routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/verification", func(r chi.Router) {
		r.Post("/sample", h.handleBuildSample)
		r.Get("/records", h.handleListRecords)
		r.Post("/records/{recordID}/status", h.handleSetRecordStatus)
		r.Get("/files/{fileID}/records", h.handleListFileRecords)
		r.Post("/files/{fileID}/status", h.handleSetFileStatus)
		r.Get("/summary", h.handleSummary)
	})
}

type buildSampleRequest struct {
	FileID     int64   `json:"fileId"`
	SampleRate float64 `json:"sampleRate"`
	Strategy   string  `json:"strategy"`
}

type setRecordStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type setFileStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleBuildSample(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req buildSampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid sample request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "invalid request body"))
		return
	}
	if req.FileID <= 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "fileId is required"))
		return
	}
	if req.SampleRate == 0 {
		req.SampleRate = h.defaultSampleRate
	}
	strategy := h.defaultStrategy
	if req.Strategy != "" {
		parsed, err := verificationModel.ParseStrategy(req.Strategy)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		strategy = parsed
	}

	result, err := h.verification.BuildSample(ctx, req.FileID, req.SampleRate, strategy)
	if err != nil {
		h.logError(ctx, "failed to build sample", requestID, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleListFileRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fileID, err := pathID(r, "fileID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	views, err := h.verification.ListRecordsForFile(ctx, fileID)
	if err != nil {
		h.logError(ctx, "failed to list file records", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"fileId":  fileID,
		"records": views,
	})
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := verificationModel.RecordStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = verificationModel.StatusPending
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	var fileID *int64
	if raw := r.URL.Query().Get("fileId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "fileId must be an integer"))
			return
		}
		fileID = &parsed
	}

	recs, err := h.verification.ListRecordsByStatus(ctx, status, limit, fileID)
	if err != nil {
		h.logError(ctx, "failed to list records", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"records": recs,
	})
}

func (h *Handler) handleSetRecordStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	recordID, err := pathID(r, "recordID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req setRecordStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid record status request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	rec, err := h.verification.SetRecordStatus(ctx, recordID, verificationModel.RecordStatus(req.Status), req.Notes, auditorFrom(ctx))
	if err != nil {
		h.logError(ctx, "failed to set record status", requestID, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleSetFileStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	fileID, err := pathID(r, "fileID")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req setFileStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid file status request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument, "invalid request body"))
		return
	}

	file, err := h.verification.SetFileStatus(ctx, fileID, verificationModel.FileStatus(req.Status), auditorFrom(ctx))
	if err != nil {
		h.logError(ctx, "failed to set file status", requestID, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, file)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.verification.Summarize(ctx)
	if err != nil {
		h.logError(ctx, "failed to summarize", middleware.GetRequestID(ctx), err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) logError(ctx context.Context, msg, requestID string, err error) {
	if dErrors.Is(err, dErrors.CodeNotFound) || dErrors.Is(err, dErrors.CodeInvalidArgument) || dErrors.Is(err, dErrors.CodeEmptyPopulation) {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err.Error())
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err.Error())
}

// auditorFrom resolves the acting auditor from the request identity. Absent
// identity degrades to "anonymous" rather than rejecting, matching the
// advisory nature of record verdicts.
func auditorFrom(ctx context.Context) string {
	if auditor := requestcontext.Auditor(ctx); auditor != "" {
		return auditor
	}
	return "anonymous"
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidArgument, "%s must be a positive integer", param)
	}
	return id, nil
}
