package models

import "time"

// Booking is one requested cleaning job moving through the lifecycle.
// The original* pricing fields are stamped once at submission and never
// touched again; the current subtotal/discount/total change when an
// admin modifies the booking.
type Booking struct {
	ID            string `json:"id"`
	User          string `json:"user"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	ServiceType string   `json:"serviceType"`
	Frequency   string   `json:"frequency"`
	Addons      []string `json:"addons"`

	Subtotal         float64 `json:"subtotal"`
	Discount         float64 `json:"discount"`
	Total            float64 `json:"total"`
	OriginalSubtotal float64 `json:"originalSubtotal"`
	OriginalDiscount float64 `json:"originalDiscount"`
	OriginalTotal    float64 `json:"originalTotal"`

	ScheduledDate string `json:"scheduledDate"` // YYYY-MM-DD
	TimeSlot      string `json:"timeSlot"`

	Address             string `json:"address"`
	City                string `json:"city"`
	Province            string `json:"province"`
	PostalCode          string `json:"postalCode"`
	AccessCode          string `json:"accessCode"`
	ParkingInfo         string `json:"parkingInfo"`
	SpecialInstructions string `json:"specialInstructions"`

	Status          BookingStatus    `json:"status"`
	ProposedChanges *ProposedChanges `json:"proposedChanges"`

	CustomerVisibleNotes    string    `json:"customerVisibleNotes"`
	ModifiedBy              string    `json:"modifiedBy"`
	ModifiedAt              time.Time `json:"modifiedAt"`
	AdminApprovedBy         string    `json:"adminApprovedBy"`
	AdminApprovedAt         time.Time `json:"adminApprovedAt"`
	CustomerApprovedAt      time.Time `json:"customerApprovedAt"`
	CustomerRejectionReason string    `json:"customerRejectionReason"`
	AdminNotes              string    `json:"adminNotes"`

	PaymentStatus string    `json:"paymentStatus"`
	PaymentID     string    `json:"paymentId"`
	PaidAt        time.Time `json:"paidAt"`

	AssignedStaff []string  `json:"assignedStaff"`
	AssignedAt    time.Time `json:"assignedAt"`
	JobStartedAt  time.Time `json:"jobStartedAt"`
	CompletedAt   time.Time `json:"completedAt"`
	CurrentStage  int       `json:"currentStage"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// ChangeSet is one side of a proposed-changes snapshot.
type ChangeSet struct {
	Total         float64  `json:"total"`
	ScheduledDate string   `json:"scheduledDate"`
	Addons        []string `json:"addons"`
}

// ProposedChanges pairs pre- and post-modification values so the
// customer can compare before confirming.
type ProposedChanges struct {
	Original ChangeSet `json:"original"`
	Modified ChangeSet `json:"modified"`
}

// BookingFromRaw decodes a store record into a Booking. Missing fields
// take the zero value for their type.
func BookingFromRaw(r Raw) Booking {
	b := Booking{
		ID:            r.GetString("id"),
		User:          r.GetString("user"),
		CustomerName:  r.GetString("customerName"),
		CustomerEmail: r.GetString("customerEmail"),
		CustomerPhone: r.GetString("customerPhone"),

		ServiceType: r.GetString("serviceType"),
		Frequency:   r.GetString("frequency"),
		Addons:      r.GetStrings("addons"),

		Subtotal:         r.GetFloat("subtotal"),
		Discount:         r.GetFloat("discount"),
		Total:            r.GetFloat("total"),
		OriginalSubtotal: r.GetFloat("originalSubtotal"),
		OriginalDiscount: r.GetFloat("originalDiscount"),
		OriginalTotal:    r.GetFloat("originalTotal"),

		ScheduledDate: r.GetString("scheduledDate"),
		TimeSlot:      r.GetString("timeSlot"),

		Address:             r.GetString("address"),
		City:                r.GetString("city"),
		Province:            r.GetString("province"),
		PostalCode:          r.GetString("postalCode"),
		AccessCode:          r.GetString("accessCode"),
		ParkingInfo:         r.GetString("parkingInfo"),
		SpecialInstructions: r.GetString("specialInstructions"),

		Status: BookingStatus(r.GetString("status")),

		CustomerVisibleNotes:    r.GetString("customerVisibleNotes"),
		ModifiedBy:              r.GetString("modifiedBy"),
		ModifiedAt:              r.GetTime("modifiedAt"),
		AdminApprovedBy:         r.GetString("adminApprovedBy"),
		AdminApprovedAt:         r.GetTime("adminApprovedAt"),
		CustomerApprovedAt:      r.GetTime("customerApprovedAt"),
		CustomerRejectionReason: r.GetString("customerRejectionReason"),
		AdminNotes:              r.GetString("adminNotes"),

		PaymentStatus: r.GetString("paymentStatus"),
		PaymentID:     r.GetString("paymentId"),
		PaidAt:        r.GetTime("paidAt"),

		AssignedStaff: r.GetStrings("assignedStaff"),
		AssignedAt:    r.GetTime("assignedAt"),
		JobStartedAt:  r.GetTime("jobStartedAt"),
		CompletedAt:   r.GetTime("completedAt"),
		CurrentStage:  r.GetInt("currentStage"),

		Created: r.GetTime("created"),
		Updated: r.GetTime("updated"),
	}

	if pc := r.GetRaw("proposedChanges"); pc != nil {
		b.ProposedChanges = &ProposedChanges{
			Original: changeSetFromRaw(pc.GetRaw("original")),
			Modified: changeSetFromRaw(pc.GetRaw("modified")),
		}
	}

	return b
}

func changeSetFromRaw(r Raw) ChangeSet {
	return ChangeSet{
		Total:         r.GetFloat("total"),
		ScheduledDate: r.GetString("scheduledDate"),
		Addons:        r.GetStrings("addons"),
	}
}

// ToRecord builds the payload for creating the booking record. The ID
// and server-managed timestamps are omitted.
func (b Booking) ToRecord() map[string]any {
	rec := map[string]any{
		"user":          b.User,
		"customerName":  b.CustomerName,
		"customerEmail": b.CustomerEmail,
		"customerPhone": b.CustomerPhone,

		"serviceType": b.ServiceType,
		"frequency":   b.Frequency,
		"addons":      b.Addons,

		"subtotal":         b.Subtotal,
		"discount":         b.Discount,
		"total":            b.Total,
		"originalSubtotal": b.OriginalSubtotal,
		"originalDiscount": b.OriginalDiscount,
		"originalTotal":    b.OriginalTotal,

		"scheduledDate": b.ScheduledDate,
		"timeSlot":      b.TimeSlot,

		"address":             b.Address,
		"city":                b.City,
		"province":            b.Province,
		"postalCode":          b.PostalCode,
		"accessCode":          b.AccessCode,
		"parkingInfo":         b.ParkingInfo,
		"specialInstructions": b.SpecialInstructions,

		"status":        string(b.Status),
		"paymentStatus": b.PaymentStatus,
		"currentStage":  b.CurrentStage,
	}
	return rec
}

// ToRaw converts a proposed-changes snapshot into a record field value.
func (p *ProposedChanges) ToRaw() map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"original": map[string]any{
			"total":         p.Original.Total,
			"scheduledDate": p.Original.ScheduledDate,
			"addons":        p.Original.Addons,
		},
		"modified": map[string]any{
			"total":         p.Modified.Total,
			"scheduledDate": p.Modified.ScheduledDate,
			"addons":        p.Modified.Addons,
		},
	}
}
