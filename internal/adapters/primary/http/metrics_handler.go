package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
	apperrors "github.com/sunlib/helpdesk-backend/internal/core/errors"
	"github.com/sunlib/helpdesk-backend/internal/core/ports"
)

// MetricsHandler handles HTTP requests for ticket metrics.
type MetricsHandler struct {
	metricsService ports.MetricsService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(
	metricsService ports.MetricsService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "metrics"),
	}
}

// RegisterRoutes registers the /metrics routes.
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetMetrics)
	r.Get("/export", h.HandleExportMetrics)
}

// HandleGetMetrics handles GET /metrics.
func (h *MetricsHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	query, err := parseMetricsQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.metricsService.Compute(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// HandleExportMetrics handles GET /metrics/export. It returns the same
// result as a downloadable JSON document.
func (h *MetricsHandler) HandleExportMetrics(w http.ResponseWriter, r *http.Request) {
	query, err := parseMetricsQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	payload, err := h.metricsService.Export(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	filename := fmt.Sprintf("ticket-metrics-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// parseMetricsQuery reads range, start, end and type from the URL query.
// Custom range dates are calendar days in YYYY-MM-DD form.
func parseMetricsQuery(r *http.Request) (domain.MetricsQuery, error) {
	query := domain.MetricsQuery{Range: domain.RangeDay}

	if raw := r.URL.Query().Get("range"); raw != "" {
		switch domain.TimeRange(raw) {
		case domain.RangeDay, domain.RangeWeek, domain.RangeMonth, domain.RangeCustom:
			query.Range = domain.TimeRange(raw)
		default:
			return domain.MetricsQuery{}, apperrors.ErrInvalidTimeRange
		}
	}

	if query.Range == domain.RangeCustom {
		start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
		if err != nil {
			return domain.MetricsQuery{}, apperrors.NewBadRequestError(err, "start must be a YYYY-MM-DD date")
		}
		end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
		if err != nil {
			return domain.MetricsQuery{}, apperrors.NewBadRequestError(err, "end must be a YYYY-MM-DD date")
		}
		query.Start = start
		query.End = end
	}

	if raw := r.URL.Query().Get("type"); raw != "" && raw != "all" {
		filter := domain.TicketType(raw)
		valid := false
		for _, t := range domain.TicketTypes {
			if t == filter {
				valid = true
				break
			}
		}
		if !valid {
			return domain.MetricsQuery{}, apperrors.ErrInvalidTypeFilter
		}
		query.TypeFilter = filter
	}

	return query, nil
}
