package models

// QuoteRequest describes the property and service selection the
// storefront calculator prices out.
type QuoteRequest struct {
	ServiceType   string   `json:"serviceType" validate:"required"`
	Frequency     string   `json:"frequency" validate:"required"`
	PropertyType  string   `json:"propertyType"`
	SquareFootage int      `json:"squareFootage" validate:"gte=0"`
	Bedrooms      int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int      `json:"bathrooms" validate:"gte=0"`
	Floors        int      `json:"floors" validate:"gte=0"`
	HasBasement   bool     `json:"hasBasement"`
	HasGarage     bool     `json:"hasGarage"`
	Addons        []string `json:"addons"`
}

// Quote is a priced-out request, identified so it can be carried into
// a booking submission unchanged.
type Quote struct {
	ID       string       `json:"id"`
	Request  QuoteRequest `json:"request"`
	Subtotal float64      `json:"subtotal"`
	Discount float64      `json:"discount"`
	Total    float64      `json:"total"`
}

// SubmitBookingRequest is the payload for creating a booking from a
// quote plus contact, schedule and address details.
type SubmitBookingRequest struct {
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerPhone string `json:"customerPhone"`

	ServiceType string   `json:"serviceType" validate:"required"`
	Frequency   string   `json:"frequency"`
	Addons      []string `json:"addons"`

	Subtotal float64 `json:"subtotal" validate:"gte=0"`
	Discount float64 `json:"discount" validate:"gte=0"`
	Total    float64 `json:"total" validate:"gte=0"`

	ScheduledDate string `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	TimeSlot      string `json:"timeSlot" validate:"required"`

	Address             string `json:"address" validate:"required"`
	City                string `json:"city" validate:"required"`
	Province            string `json:"province"`
	PostalCode          string `json:"postalCode"`
	AccessCode          string `json:"accessCode"`
	ParkingInfo         string `json:"parkingInfo"`
	SpecialInstructions string `json:"specialInstructions"`
}

// BookingModifications carries the fields an admin proposes to change.
type BookingModifications struct {
	Total         *float64 `json:"total"`
	ScheduledDate *string  `json:"scheduledDate"`
	Addons        []string `json:"addons"`
}
