package models

// Identity methods let list mirrors match records across change events.

func (b Booking) Identity() string     { return b.ID }
func (p JobProgress) Identity() string { return p.ID }
func (v Review) Identity() string      { return v.ID }
func (f Referral) Identity() string    { return f.ID }
func (u User) Identity() string        { return u.ID }
func (s Service) Identity() string     { return s.ID }
func (a Addon) Identity() string       { return a.ID }
