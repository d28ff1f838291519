package api

import (
	"net/http"
	"strconv"
	"strings"

	"noblejade/internal/models"
	"noblejade/internal/service"
	"noblejade/internal/worker"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeServiceError(w, err)
		return
	}

	quote, err := s.svc.Quotes.Calculate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *HTTPServer) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitBookingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	booking, err := s.svc.Bookings.Submit(r.Context(), actorFromRequest(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleUserBookings(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor.IsZero() {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	limit := queryInt(r, "limit", 0)

	bookings := s.svc.Dashboard.GetUserBookings(r.Context(), actor.ID, status, limit)
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleApprove(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.Approve(r.Context(), actorFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleModify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Modifications models.BookingModifications `json:"modifications"`
		Notes         string                      `json:"notes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.svc.Bookings.Modify(r.Context(), actorFromRequest(r), r.PathValue("id"), body.Modifications, body.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleAcceptModifications(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.AcceptModifications(r.Context(), actorFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleRejectModifications(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.svc.Bookings.RejectModifications(r.Context(), actorFromRequest(r), r.PathValue("id"), body.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleMarkAsPaid(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentID string `json:"paymentId"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.svc.Bookings.MarkAsPaid(r.Context(), actorFromRequest(r), r.PathValue("id"), body.PaymentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleAssignStaff(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StaffIDs []string `json:"staffIds"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.StaffIDs) == 0 {
		writeError(w, http.StatusBadRequest, "staffIds is required")
		return
	}

	booking, err := s.svc.Bookings.AssignStaff(r.Context(), actorFromRequest(r), r.PathValue("id"), body.StaffIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleStartJob(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.StartJob(r.Context(), actorFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleCompleteJob(w http.ResponseWriter, r *http.Request) {
	booking, err := s.svc.Bookings.CompleteJob(r.Context(), actorFromRequest(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.svc.Bookings.Cancel(r.Context(), actorFromRequest(r), r.PathValue("id"), body.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	entries := s.svc.Progress.GetProgress(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{"progress": entries})
}

func (s *HTTPServer) handleAddProgress(w http.ResponseWriter, r *http.Request) {
	var entry models.JobProgress
	if !decodeBody(w, r, &entry) {
		return
	}
	entry.Booking = r.PathValue("id")

	created, err := s.svc.Progress.AddProgress(r.Context(), actorFromRequest(r), entry)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req service.ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review, err := s.svc.Dashboard.SubmitReview(r.Context(), actorFromRequest(r), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *HTTPServer) handleUserStats(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor.IsZero() {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Dashboard.GetUserStats(r.Context(), actor.ID))
}

func (s *HTTPServer) handleUserReviews(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor.IsZero() {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": s.svc.Dashboard.GetUserReviews(r.Context(), actor.ID)})
}

func (s *HTTPServer) handlePendingReviews(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor.IsZero() {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": s.svc.Dashboard.GetPendingReviewBookings(r.Context(), actor.ID)})
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("popular") == "true" {
		writeJSON(w, http.StatusOK, map[string]any{"services": s.svc.Content.GetPopularServices(r.Context())})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": s.svc.Content.GetServices(r.Context())})
}

func (s *HTTPServer) handleServiceBySlug(w http.ResponseWriter, r *http.Request) {
	svc, err := s.svc.Content.GetServiceBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *HTTPServer) handleAddons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"addons": s.svc.Content.GetAddons(r.Context())})
}

func (s *HTTPServer) handleFAQs(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{"faqs": s.svc.Content.GetFAQs(r.Context(), category)})
}

func (s *HTTPServer) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	featured := r.URL.Query().Get("featured") == "true"
	writeJSON(w, http.StatusOK, map[string]any{"testimonials": s.svc.Content.GetTestimonials(r.Context(), featured)})
}

func (s *HTTPServer) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"locations": s.svc.Content.GetLocations(r.Context())})
}

func (s *HTTPServer) handleCompanyInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Settings.CompanyInfo(r.Context()))
}

func (s *HTTPServer) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Admin.GetDashboardStats(r.Context()))
}

func (s *HTTPServer) handleAdminBookings(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	filters := service.BookingFilters{
		Status:    strings.TrimSpace(r.URL.Query().Get("status")),
		DateRange: strings.TrimSpace(r.URL.Query().Get("dateRange")),
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
	}
	writeJSON(w, http.StatusOK, s.svc.Admin.GetAllBookings(r.Context(), page, perPage, filters))
}

func (s *HTTPServer) handleAdminBookingStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Admin.GetBookingStats(r.Context()))
}

func (s *HTTPServer) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, s.svc.Admin.GetAllUsers(r.Context(), page, perPage, role, search))
}

func (s *HTTPServer) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if !decodeBody(w, r, &data) {
		return
	}

	user, err := s.svc.Admin.UpdateUser(r.Context(), r.PathValue("id"), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Admin.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *HTTPServer) handleAdminStaff(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"staff": s.svc.Admin.GetAllStaff(r.Context())})
}

func (s *HTTPServer) handleAdminTopStaff(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 5)
	writeJSON(w, http.StatusOK, map[string]any{"staff": s.svc.Admin.GetTopStaff(r.Context(), limit)})
}

func (s *HTTPServer) handleAdminCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req service.CreateStaffRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.svc.Admin.CreateStaffMember(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) handleCalculatorSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"settings": s.svc.Admin.GetCalculatorSettings(r.Context())})
}

func (s *HTTPServer) handleUpdateCalculatorSetting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value float64 `json:"value"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	setting, err := s.svc.Admin.UpdateCalculatorSetting(r.Context(), r.PathValue("id"), body.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	start := strings.TrimSpace(r.URL.Query().Get("start"))
	end := strings.TrimSpace(r.URL.Query().Get("end"))
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}

	data, fileName, err := s.svc.Exporter.ExportBookings(r.Context(), start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *HTTPServer) handleReferralSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Referrals.Summary(r.Context(), actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *HTTPServer) handleSendReferral(w http.ResponseWriter, r *http.Request) {
	var invite service.ReferralInvite
	if !decodeBody(w, r, &invite) {
		return
	}

	ref, err := s.svc.Referrals.SendInvite(r.Context(), actorFromRequest(r), invite)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

// handleAdminSyncSheets queues a full spreadsheet rebuild.
func (s *HTTPServer) handleAdminSyncSheets(w http.ResponseWriter, r *http.Request) {
	if s.svc.Sync == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet sync is not configured")
		return
	}

	if err := s.svc.Sync.EnqueueTask(r.Context(), worker.TaskReplaceAll, "", nil, ""); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func queryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
