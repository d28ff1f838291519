package models

// Record store collection names.
const (
	CollectionBookings           = "bookings"
	CollectionJobProgress        = "job_progress"
	CollectionReviews            = "reviews"
	CollectionUsers              = "users"
	CollectionServices           = "services"
	CollectionAddons             = "addons"
	CollectionFAQs               = "faqs"
	CollectionTestimonials       = "testimonials"
	CollectionSettings           = "settings"
	CollectionCalculatorSettings = "calculator_settings"
	CollectionLocations          = "locations"
	CollectionReferrals          = "referrals"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Payment status values on a booking.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

const (
	// StageInitial is the stage counter value at submission.
	StageInitial = 0

	// StageStarted is set when staff start the job.
	StageStarted = 1

	// StageTerminal is the stage counter value stamped on completion.
	StageTerminal = 6
)

const (
	// SettingsCacheTTL время жизни кэша настроек в Redis (секунды)
	SettingsCacheTTL = 30 * 60

	// DefaultPageSize размер страницы списков по умолчанию
	DefaultPageSize = 20

	// DefaultRecentLimit количество последних заявок на дашборде
	DefaultRecentLimit = 5

	// WorkerQueueSize размер очереди воркера
	WorkerQueueSize = 1000

	// RateLimitRequests количество запросов в окне
	RateLimitRequests = 20

	// RateLimitWindow окно ограничения частоты запросов (секунды)
	RateLimitWindow = 60
)
