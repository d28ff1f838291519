package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingFromRaw(t *testing.T) {
	raw := Raw{
		"id":            "bk1",
		"user":          "u1",
		"customerName":  "Jane Doe",
		"serviceType":   "deep",
		"status":        "pending_review",
		"subtotal":      200.0,
		"discount":      20.0,
		"total":         180.0,
		"originalTotal": 180.0,
		"scheduledDate": "2026-09-15",
		"currentStage":  float64(2), // JSON numbers decode as float64
		"assignedStaff": []any{"s1", "s2"},
		"modifiedAt":    "2026-09-01T10:00:00Z",
		"proposedChanges": map[string]any{
			"original": map[string]any{"total": 180.0, "scheduledDate": "2026-09-15"},
			"modified": map[string]any{"total": 210.0, "scheduledDate": "2026-09-16"},
		},
	}

	b := BookingFromRaw(raw)
	assert.Equal(t, "bk1", b.ID)
	assert.Equal(t, StatusPendingReview, b.Status)
	assert.Equal(t, 180.0, b.Total)
	assert.Equal(t, 180.0, b.OriginalTotal)
	assert.Equal(t, 2, b.CurrentStage)
	assert.Equal(t, []string{"s1", "s2"}, b.AssignedStaff)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), b.ModifiedAt)
	if assert.NotNil(t, b.ProposedChanges) {
		assert.Equal(t, 180.0, b.ProposedChanges.Original.Total)
		assert.Equal(t, 210.0, b.ProposedChanges.Modified.Total)
		assert.Equal(t, "2026-09-16", b.ProposedChanges.Modified.ScheduledDate)
	}
}

func TestBookingFromRawDefaults(t *testing.T) {
	b := BookingFromRaw(Raw{"id": "bk2", "total": "not-a-number"})
	assert.Equal(t, "bk2", b.ID)
	assert.Zero(t, b.Total)
	assert.Empty(t, b.Status)
	assert.Nil(t, b.ProposedChanges)
	assert.Nil(t, b.AssignedStaff)
	assert.True(t, b.ModifiedAt.IsZero())
}

func TestRawGetters(t *testing.T) {
	r := Raw{
		"n1": 5,
		"n2": int64(6),
		"n3": 7.5,
		"b":  true,
		"s":  "hello",
	}

	assert.Equal(t, 5.0, r.GetFloat("n1"))
	assert.Equal(t, 6.0, r.GetFloat("n2"))
	assert.Equal(t, 7, r.GetInt("n3"))
	assert.True(t, r.GetBool("b"))
	assert.Equal(t, "hello", r.GetString("s"))

	// wrong types fall back to zero values
	assert.Zero(t, r.GetFloat("s"))
	assert.Empty(t, r.GetString("n1"))
	assert.False(t, r.GetBool("missing"))
	assert.Nil(t, Raw(nil).GetStrings("x"))
}
