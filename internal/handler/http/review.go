package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/utafrali/ReviewsGo/internal/domain"
	"github.com/utafrali/ReviewsGo/internal/service"
	apperrors "github.com/utafrali/ReviewsGo/pkg/errors"
	"github.com/utafrali/ReviewsGo/pkg/httputil"
	"github.com/utafrali/ReviewsGo/pkg/validator"
)

// ReviewHandler exposes the import and retrieval endpoints.
type ReviewHandler struct {
	service      *service.ReviewService
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger, maxBodyBytes int64) *ReviewHandler {
	return &ReviewHandler{
		service:      svc,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

type importRequest struct {
	ProductHandle string             `json:"product_handle" validate:"required,max=255"`
	Source        string             `json:"source" validate:"required,max=64"`
	SourceURL     string             `json:"source_url" validate:"omitempty,url,max=2048"`
	Reviews       []domain.RawReview `json:"reviews" validate:"required"`
}

type syncRequest struct {
	ProductHandle string `json:"product_handle" validate:"required,max=255"`
	Source        string `json:"source" validate:"required,max=64"`
}

type importResponse struct {
	Success       bool   `json:"success"`
	Imported      int    `json:"imported"`
	ProductHandle string `json:"product_handle"`
	Source        string `json:"source"`
}

func newImportResponse(batch *domain.ReviewBatch) importResponse {
	return importResponse{
		Success:       true,
		Imported:      batch.TotalReviews,
		ProductHandle: batch.ProductHandle,
		Source:        batch.Source.String(),
	}
}

// ImportReviews handles POST /api/v1/reviews/import. The request carries raw
// platform review objects; the response reports how many survived the
// pipeline, not the stored batch itself.
func (h *ReviewHandler) ImportReviews(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req importRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			httputil.WriteValidationError(w, ve)
			return
		}
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	source, known := domain.ParseSource(req.Source)
	if !known && req.Source != string(domain.SourceGeneric) {
		h.logger.DebugContext(r.Context(), "unrecognized review source, using generic normalization",
			slog.String("source", req.Source),
		)
	}

	batch, err := h.service.ImportReviews(r.Context(), req.ProductHandle, source, req.SourceURL, req.Reviews)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newImportResponse(batch)})
}

// GetReviews handles GET /api/v1/reviews?product=<handle>&source=<source>.
// Without a source filter, reviews from all sources are merged.
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	productHandle := r.URL.Query().Get("product")
	if productHandle == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("query parameter 'product' is required"), h.logger)
		return
	}

	var source *domain.Source
	if rawSource := r.URL.Query().Get("source"); rawSource != "" {
		parsed, known := domain.ParseSource(rawSource)
		if !known {
			httputil.WriteError(w, r, apperrors.UnsupportedSource(rawSource), h.logger)
			return
		}
		source = &parsed
	}

	batch, err := h.service.GetReviews(r.Context(), productHandle, source)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: batch})
}

// SyncReviews handles POST /api/v1/reviews/sync: pull reviews directly from a
// configured platform API and import them.
func (h *ReviewHandler) SyncReviews(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req syncRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			httputil.WriteValidationError(w, ve)
			return
		}
		httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
		return
	}

	source, known := domain.ParseSource(req.Source)
	if !known {
		httputil.WriteError(w, r, apperrors.UnsupportedSource(req.Source), h.logger)
		return
	}

	batch, err := h.service.SyncFromPlatform(r.Context(), req.ProductHandle, source)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newImportResponse(batch)})
}
