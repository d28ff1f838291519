package models

import "time"

// Review is customer feedback tied to one completed booking.
type Review struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	Booking      string    `json:"booking"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title"`
	Comment      string    `json:"comment"`
	Photos       []string  `json:"photos"`
	IsPublic     bool      `json:"isPublic"`
	Response     string    `json:"response"`
	ResponseDate time.Time `json:"responseDate"`
	Created      time.Time `json:"created"`
}

func ReviewFromRaw(r Raw) Review {
	return Review{
		ID:           r.GetString("id"),
		User:         r.GetString("user"),
		Booking:      r.GetString("booking"),
		Rating:       r.GetInt("rating"),
		Title:        r.GetString("title"),
		Comment:      r.GetString("comment"),
		Photos:       r.GetStrings("photos"),
		IsPublic:     r.GetBool("isPublic"),
		Response:     r.GetString("response"),
		ResponseDate: r.GetTime("responseDate"),
		Created:      r.GetTime("created"),
	}
}

func (v Review) ToRecord() map[string]any {
	return map[string]any{
		"user":     v.User,
		"booking":  v.Booking,
		"rating":   v.Rating,
		"title":    v.Title,
		"comment":  v.Comment,
		"isPublic": v.IsPublic,
	}
}
