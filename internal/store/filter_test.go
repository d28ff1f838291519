package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noblejade/internal/models"
)

func TestParseFilter(t *testing.T) {
	rec := models.Raw{
		"status":        "completed",
		"user":          "u1",
		"total":         180.0,
		"isPublic":      true,
		"customerName":  "Jane Doe",
		"scheduledDate": "2026-09-15",
		"assignedStaff": []any{"s1", "s2"},
	}

	tests := []struct {
		filter string
		want   bool
	}{
		{``, true},
		{`status = "completed"`, true},
		{`status = "paid"`, false},
		{`status != "paid"`, true},
		{`total >= 180`, true},
		{`total > 180`, false},
		{`total < 200 && status = "completed"`, true},
		{`status = "paid" || status = "completed"`, true},
		{`isPublic = true`, true},
		{`isPublic = false`, false},
		{`customerName ~ "jane"`, true},
		{`customerName ~ "smith"`, false},
		{`assignedStaff ~ "s2"`, true},
		{`assignedStaff ~ "s3"`, false},
		{`scheduledDate >= "2026-09-01"`, true},
		{`scheduledDate >= "2026-10-01"`, false},
		{`(status = "paid" || status = "completed") && user = "u1"`, true},
		{`(status = "paid" || status = "completed") && user = "u2"`, false},
		{`missing = null`, true},
		{`status = null`, false},
	}

	for _, tt := range tests {
		match, err := ParseFilter(tt.filter)
		require.NoError(t, err, tt.filter)
		assert.Equal(t, tt.want, match(rec), tt.filter)
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, filter := range []string{
		`status =`,
		`= "x"`,
		`(status = "a"`,
		`status = "a" garbage`,
		`status = unquoted`,
	} {
		_, err := ParseFilter(filter)
		assert.Error(t, err, filter)
	}
}

func TestApplySort(t *testing.T) {
	items := []models.Raw{
		{"id": "a", "sortOrder": 2.0, "created": "2026-01-02"},
		{"id": "b", "sortOrder": 1.0, "created": "2026-01-03"},
		{"id": "c", "sortOrder": 2.0, "created": "2026-01-01"},
	}

	applySort(items, "sortOrder,-created")
	ids := []string{items[0].GetString("id"), items[1].GetString("id"), items[2].GetString("id")}
	assert.Equal(t, []string{"b", "a", "c"}, ids)

	applySort(items, "-created")
	assert.Equal(t, "b", items[0].GetString("id"))
}
