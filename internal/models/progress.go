package models

import "time"

// JobProgress is one execution-stage checkpoint for a booking.
// Entries are immutable once created.
type JobProgress struct {
	ID          string    `json:"id"`
	Booking     string    `json:"booking"`
	Staff       string    `json:"staff"`
	Stage       string    `json:"stage"`
	StageNumber int       `json:"stageNumber"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Photos      []string  `json:"photos"`
	Created     time.Time `json:"created"`
}

func JobProgressFromRaw(r Raw) JobProgress {
	return JobProgress{
		ID:          r.GetString("id"),
		Booking:     r.GetString("booking"),
		Staff:       r.GetString("staff"),
		Stage:       r.GetString("stage"),
		StageNumber: r.GetInt("stageNumber"),
		Title:       r.GetString("title"),
		Description: r.GetString("description"),
		Photos:      r.GetStrings("photos"),
		Created:     r.GetTime("created"),
	}
}

func (p JobProgress) ToRecord() map[string]any {
	rec := map[string]any{
		"booking":     p.Booking,
		"staff":       p.Staff,
		"stage":       p.Stage,
		"stageNumber": p.StageNumber,
		"title":       p.Title,
	}
	if p.Description != "" {
		rec["description"] = p.Description
	}
	if len(p.Photos) > 0 {
		rec["photos"] = p.Photos
	}
	return rec
}
