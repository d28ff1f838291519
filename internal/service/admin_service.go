package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"noblejade/internal/metrics"
	"noblejade/internal/models"
	"noblejade/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalBookings  int     `json:"totalBookings"`
	Revenue        float64 `json:"revenue"`
	ActiveStaff    int     `json:"activeStaff"`
	PendingReviews int     `json:"pendingReviews"`
}

// BookingStats are the counters above the admin bookings table.
type BookingStats struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// BookingFilters narrow the admin bookings table.
type BookingFilters struct {
	Status    string
	DateRange string // today, week, month, all
	Search    string
}

// BookingPage is one page of the admin bookings table.
type BookingPage struct {
	Items      []models.Booking `json:"items"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
}

// UserPage is one page of the admin users table.
type UserPage struct {
	Items      []models.User `json:"items"`
	TotalItems int           `json:"totalItems"`
	TotalPages int           `json:"totalPages"`
}

// CreateStaffRequest is the payload for onboarding a staff account.
type CreateStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
}

// AdminService backs the admin panel: aggregate stats, booking and
// user tables, staff management and calculator settings. Reads degrade
// to zero values on store errors; writes propagate them.
type AdminService struct {
	store    store.RecordStore
	validate *validator.Validate
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewAdminService(st store.RecordStore, logger *zerolog.Logger) *AdminService {
	return &AdminService{
		store:    st,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// GetDashboardStats aggregates the landing page numbers. Revenue is
// this month's completed or paid bookings; the month cut is applied in
// code off the record creation time.
func (s *AdminService) GetDashboardStats(ctx context.Context) DashboardStats {
	var stats DashboardStats

	all, err := s.store.List(ctx, models.CollectionBookings, 1, 1, store.ListOptions{})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Msg("fetch dashboard stats error")
		return DashboardStats{}
	}
	stats.TotalBookings = all.TotalItems

	paid, err := s.store.ListAll(ctx, models.CollectionBookings, store.ListOptions{
		Filter: `status = "completed" || status = "paid"`,
	})
	if err == nil {
		now := s.now()
		firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for _, r := range paid {
			if r.GetTime("created").Before(firstOfMonth) {
				continue
			}
			stats.Revenue += r.GetFloat("total")
		}
	} else {
		s.logger.Error().Err(err).Msg("fetch month revenue error")
	}

	if staff, err := s.store.List(ctx, models.CollectionUsers, 1, 1, store.ListOptions{
		Filter: `role = "staff"`,
	}); err == nil {
		stats.ActiveStaff = staff.TotalItems
	}

	if pending, err := s.store.List(ctx, models.CollectionBookings, 1, 1, store.ListOptions{
		Filter: `status = "pending_review"`,
	}); err == nil {
		stats.PendingReviews = pending.TotalItems
	}

	return stats
}

// GetRecentBookings lists the latest scheduled bookings.
func (s *AdminService) GetRecentBookings(ctx context.Context, limit int) []models.Booking {
	if limit <= 0 {
		limit = models.DefaultRecentLimit
	}
	result, err := s.store.List(ctx, models.CollectionBookings, 1, limit, store.ListOptions{
		Sort: "-scheduledDate",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Msg("fetch recent bookings error")
		return []models.Booking{}
	}
	return decodeBookings(result.Items)
}

// GetAllBookings pages through the bookings table with the admin's
// filters applied store-side.
func (s *AdminService) GetAllBookings(ctx context.Context, page, perPage int, filters BookingFilters) BookingPage {
	var parts []string

	if filters.Status != "" && filters.Status != "all" {
		parts = append(parts, fmt.Sprintf("status = %q", filters.Status))
	}

	if filters.DateRange != "" && filters.DateRange != "all" {
		now := s.now()
		var start time.Time
		switch filters.DateRange {
		case "today":
			start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		case "week":
			start = now.AddDate(0, 0, -7)
		case "month":
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		}
		if !start.IsZero() {
			parts = append(parts, fmt.Sprintf("scheduledDate >= %q", start.Format("2006-01-02")))
		}
	}

	if filters.Search != "" {
		parts = append(parts, fmt.Sprintf("(customerName ~ %q || id ~ %q)", filters.Search, filters.Search))
	}

	var filter string
	for i, p := range parts {
		if i > 0 {
			filter += " && "
		}
		filter += p
	}

	if perPage <= 0 {
		perPage = models.DefaultPageSize
	}
	result, err := s.store.List(ctx, models.CollectionBookings, page, perPage, store.ListOptions{
		Filter: filter,
		Sort:   "-scheduledDate",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionBookings)
		s.logger.Error().Err(err).Str("filter", filter).Msg("fetch bookings table error")
		return BookingPage{Items: []models.Booking{}}
	}

	return BookingPage{
		Items:      decodeBookings(result.Items),
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
}

// GetBookingStats returns the counters above the bookings table.
func (s *AdminService) GetBookingStats(ctx context.Context) BookingStats {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -7).Format("2006-01-02")

	count := func(filter string) int {
		result, err := s.store.List(ctx, models.CollectionBookings, 1, 1, store.ListOptions{Filter: filter})
		if err != nil {
			metrics.IncStoreError(models.CollectionBookings)
			s.logger.Error().Err(err).Str("filter", filter).Msg("booking count error")
			return 0
		}
		return result.TotalItems
	}

	return BookingStats{
		Today:     count(fmt.Sprintf("scheduledDate >= %q", today)),
		ThisWeek:  count(fmt.Sprintf("scheduledDate >= %q", weekAgo)),
		Pending:   count(`status = "pending_review"`),
		Completed: count(`status = "completed"`),
	}
}

// GetAllUsers pages through accounts with role and search filters.
func (s *AdminService) GetAllUsers(ctx context.Context, page, perPage int, role, search string) UserPage {
	var filter string
	if role != "" && role != "all" {
		filter = fmt.Sprintf("role = %q", role)
	}
	if search != "" {
		clause := fmt.Sprintf("(name ~ %q || email ~ %q)", search, search)
		if filter != "" {
			filter += " && " + clause
		} else {
			filter = clause
		}
	}

	if perPage <= 0 {
		perPage = models.DefaultPageSize
	}
	result, err := s.store.List(ctx, models.CollectionUsers, page, perPage, store.ListOptions{
		Filter: filter,
		Sort:   "name",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionUsers)
		s.logger.Error().Err(err).Msg("fetch users error")
		return UserPage{Items: []models.User{}}
	}

	users := make([]models.User, 0, len(result.Items))
	for _, r := range result.Items {
		users = append(users, models.UserFromRaw(r))
	}
	return UserPage{
		Items:      users,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	}
}

// UpdateUser patches an account record.
func (s *AdminService) UpdateUser(ctx context.Context, userID string, data map[string]any) (models.User, error) {
	rec, err := s.store.Update(ctx, models.CollectionUsers, userID, data)
	if err != nil {
		metrics.IncStoreError(models.CollectionUsers)
		return models.User{}, err
	}
	return models.UserFromRaw(rec), nil
}

// DeleteUser removes an account record.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, models.CollectionUsers, userID); err != nil {
		metrics.IncStoreError(models.CollectionUsers)
		return err
	}
	return nil
}

// GetAllStaff lists staff accounts enriched with completed-job counts
// and their review average. Staff without reviews show the default
// 4.5 rating.
func (s *AdminService) GetAllStaff(ctx context.Context) []models.StaffMember {
	recs, err := s.store.ListAll(ctx, models.CollectionUsers, store.ListOptions{
		Filter: `role = "staff"`,
		Sort:   "name",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionUsers)
		s.logger.Error().Err(err).Msg("fetch staff error")
		return []models.StaffMember{}
	}

	out := make([]models.StaffMember, 0, len(recs))
	for _, r := range recs {
		member := models.StaffMember{
			User:          models.UserFromRaw(r),
			AverageRating: 4.5,
			Status:        "active",
		}

		if jobs, err := s.store.List(ctx, models.CollectionBookings, 1, 1, store.ListOptions{
			Filter: fmt.Sprintf("assignedStaff ~ %q && status = \"completed\"", member.ID),
		}); err == nil {
			member.JobsCompleted = jobs.TotalItems
		}

		if reviews, err := s.store.ListAll(ctx, models.CollectionReviews, store.ListOptions{
			Filter: fmt.Sprintf("staff ~ %q", member.ID),
		}); err == nil && len(reviews) > 0 {
			var sum float64
			for _, rv := range reviews {
				sum += rv.GetFloat("rating")
			}
			member.AverageRating = math.Round(sum/float64(len(reviews))*10) / 10
		}

		out = append(out, member)
	}
	return out
}

// GetTopStaff returns the busiest staff members.
func (s *AdminService) GetTopStaff(ctx context.Context, limit int) []models.StaffMember {
	staff := s.GetAllStaff(ctx)
	sort.SliceStable(staff, func(i, j int) bool {
		return staff[i].JobsCompleted > staff[j].JobsCompleted
	})
	if limit > 0 && len(staff) > limit {
		staff = staff[:limit]
	}
	return staff
}

// CreateStaffMember onboards a new staff account.
func (s *AdminService) CreateStaffMember(ctx context.Context, req CreateStaffRequest) (models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.User{}, err
	}

	rec, err := s.store.Create(ctx, models.CollectionUsers, map[string]any{
		"name":            req.Name,
		"email":           req.Email,
		"phone":           req.Phone,
		"password":        req.Password,
		"passwordConfirm": req.Password,
		"role":            models.RoleStaff,
		"emailVisibility": true,
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionUsers)
		return models.User{}, err
	}
	return models.UserFromRaw(rec), nil
}

// GetCalculatorSettings lists pricing parameters grouped for the admin
// editor.
func (s *AdminService) GetCalculatorSettings(ctx context.Context) []models.CalculatorSetting {
	recs, err := s.store.ListAll(ctx, models.CollectionCalculatorSettings, store.ListOptions{
		Sort: "category,sortOrder",
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionCalculatorSettings)
		s.logger.Error().Err(err).Msg("fetch calculator settings error")
		return []models.CalculatorSetting{}
	}

	out := make([]models.CalculatorSetting, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.CalculatorSettingFromRaw(r))
	}
	return out
}

// UpdateCalculatorSetting sets one pricing parameter's value.
func (s *AdminService) UpdateCalculatorSetting(ctx context.Context, id string, value float64) (models.CalculatorSetting, error) {
	rec, err := s.store.Update(ctx, models.CollectionCalculatorSettings, id, map[string]any{
		"value": value,
	})
	if err != nil {
		metrics.IncStoreError(models.CollectionCalculatorSettings)
		return models.CalculatorSetting{}, err
	}
	return models.CalculatorSettingFromRaw(rec), nil
}
