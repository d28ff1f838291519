package models

import "time"

// Referral statuses, in invite order.
const (
	ReferralPending    = "pending"
	ReferralRegistered = "registered"
	ReferralCompleted  = "completed"
	ReferralRewarded   = "rewarded"
)

// DefaultReferralReward is credited once a referral is rewarded.
const DefaultReferralReward = 25.0

// Referral is one friend invite sent by a customer.
type Referral struct {
	ID            string    `json:"id"`
	Referrer      string    `json:"referrer"`
	ReferredEmail string    `json:"referredEmail"`
	ReferredName  string    `json:"referredName"`
	Status        string    `json:"status"`
	Reward        float64   `json:"reward"`
	Created       time.Time `json:"created"`
	CompletedAt   time.Time `json:"completedAt"`
}

func ReferralFromRaw(r Raw) Referral {
	return Referral{
		ID:            r.GetString("id"),
		Referrer:      r.GetString("referrer"),
		ReferredEmail: r.GetString("referredEmail"),
		ReferredName:  r.GetString("referredName"),
		Status:        r.GetString("status"),
		Reward:        r.GetFloat("reward"),
		Created:       r.GetTime("created"),
		CompletedAt:   r.GetTime("completedAt"),
	}
}

func (f Referral) ToRecord() map[string]any {
	return map[string]any{
		"referrer":      f.Referrer,
		"referredEmail": f.ReferredEmail,
		"referredName":  f.ReferredName,
		"status":        f.Status,
		"reward":        f.Reward,
	}
}
