package models

import "time"

// User is an account record: customer, staff member or admin.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	Avatar        string    `json:"avatar"`
	Verified      bool      `json:"verified"`
	WalletBalance float64   `json:"walletBalance"`
	Created       time.Time `json:"created"`
}

func UserFromRaw(r Raw) User {
	return User{
		ID:            r.GetString("id"),
		Name:          r.GetString("name"),
		Email:         r.GetString("email"),
		Phone:         r.GetString("phone"),
		Role:          r.GetString("role"),
		Avatar:        r.GetString("avatar"),
		Verified:      r.GetBool("verified"),
		WalletBalance: r.GetFloat("walletBalance"),
		Created:       r.GetTime("created"),
	}
}

// StaffMember is a staff user enriched with back-office stats.
type StaffMember struct {
	User
	JobsCompleted int     `json:"jobsCompleted"`
	AverageRating float64 `json:"averageRating"`
	Status        string  `json:"status"` // active, on-leave, inactive
}

// Actor identifies who is performing a lifecycle operation.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  string
}

func (a Actor) IsZero() bool {
	return a.ID == ""
}
