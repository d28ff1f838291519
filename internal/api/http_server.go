// Package api exposes the booking platform over HTTP: quotes,
// booking lifecycle, dashboards, content and admin operations.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"noblejade/internal/config"
	"noblejade/internal/domain"
	"noblejade/internal/export"
	"noblejade/internal/metrics"
	"noblejade/internal/service"
	"noblejade/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Services bundles everything the HTTP layer dispatches into. Sync is
// nil when the spreadsheet integration is not configured.
type Services struct {
	Bookings  *service.BookingService
	Progress  *service.ProgressService
	Quotes    *service.QuoteCalculator
	Settings  *service.SettingsService
	Dashboard *service.DashboardService
	Admin     *service.AdminService
	Content   *service.ContentService
	Referrals *service.ReferralService
	Exporter  *export.Exporter
	Sync      domain.SyncWorker
}

type HTTPServer struct {
	cfg    config.APIConfig
	svc    Services
	server *http.Server
	auth   *HTTPAuth
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{cfg: cfg, svc: svc, logger: logger}
	srv.auth = NewHTTPAuth(&srv.cfg)

	mux := http.NewServeMux()
	srv.registerRoutes(mux)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /api/v1/quote", s.handleQuote)

	mux.HandleFunc("POST /api/v1/bookings", s.handleSubmitBooking)
	mux.HandleFunc("GET /api/v1/bookings", s.handleUserBookings)
	mux.HandleFunc("GET /api/v1/bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/approve", s.handleApprove)
	mux.HandleFunc("POST /api/v1/bookings/{id}/modify", s.handleModify)
	mux.HandleFunc("POST /api/v1/bookings/{id}/accept", s.handleAcceptModifications)
	mux.HandleFunc("POST /api/v1/bookings/{id}/reject", s.handleRejectModifications)
	mux.HandleFunc("POST /api/v1/bookings/{id}/pay", s.handleMarkAsPaid)
	mux.HandleFunc("POST /api/v1/bookings/{id}/assign", s.handleAssignStaff)
	mux.HandleFunc("POST /api/v1/bookings/{id}/start", s.handleStartJob)
	mux.HandleFunc("POST /api/v1/bookings/{id}/complete", s.handleCompleteJob)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancel", s.handleCancel)
	mux.HandleFunc("GET /api/v1/bookings/{id}/progress", s.handleGetProgress)
	mux.HandleFunc("POST /api/v1/bookings/{id}/progress", s.handleAddProgress)
	mux.HandleFunc("POST /api/v1/bookings/{id}/review", s.handleSubmitReview)

	mux.HandleFunc("GET /api/v1/referrals", s.handleReferralSummary)
	mux.HandleFunc("POST /api/v1/referrals", s.handleSendReferral)

	mux.HandleFunc("GET /api/v1/dashboard/stats", s.handleUserStats)
	mux.HandleFunc("GET /api/v1/dashboard/reviews", s.handleUserReviews)
	mux.HandleFunc("GET /api/v1/dashboard/pending-reviews", s.handlePendingReviews)

	mux.HandleFunc("GET /api/v1/content/services", s.handleServices)
	mux.HandleFunc("GET /api/v1/content/services/{slug}", s.handleServiceBySlug)
	mux.HandleFunc("GET /api/v1/content/addons", s.handleAddons)
	mux.HandleFunc("GET /api/v1/content/faqs", s.handleFAQs)
	mux.HandleFunc("GET /api/v1/content/testimonials", s.handleTestimonials)
	mux.HandleFunc("GET /api/v1/content/locations", s.handleLocations)
	mux.HandleFunc("GET /api/v1/company", s.handleCompanyInfo)

	mux.HandleFunc("GET /api/v1/admin/stats", s.handleAdminStats)
	mux.HandleFunc("GET /api/v1/admin/bookings", s.handleAdminBookings)
	mux.HandleFunc("GET /api/v1/admin/booking-stats", s.handleAdminBookingStats)
	mux.HandleFunc("GET /api/v1/admin/users", s.handleAdminUsers)
	mux.HandleFunc("PATCH /api/v1/admin/users/{id}", s.handleAdminUpdateUser)
	mux.HandleFunc("DELETE /api/v1/admin/users/{id}", s.handleAdminDeleteUser)
	mux.HandleFunc("GET /api/v1/admin/staff", s.handleAdminStaff)
	mux.HandleFunc("GET /api/v1/admin/staff/top", s.handleAdminTopStaff)
	mux.HandleFunc("POST /api/v1/admin/staff", s.handleAdminCreateStaff)
	mux.HandleFunc("GET /api/v1/admin/calculator-settings", s.handleCalculatorSettings)
	mux.HandleFunc("PATCH /api/v1/admin/calculator-settings/{id}", s.handleUpdateCalculatorSetting)
	mux.HandleFunc("GET /api/v1/admin/export", s.handleExport)
	mux.HandleFunc("POST /api/v1/admin/sync-sheets", s.handleAdminSyncSheets)
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps service and store failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation validator.ValidationErrors
	var rule *store.ValidationError

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrNoProposedChanges):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &rule):
		writeError(w, http.StatusConflict, rule.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
