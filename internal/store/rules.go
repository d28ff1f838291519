package store

import (
	"fmt"

	"noblejade/internal/models"
)

// BookingLifecycleRule rejects booking status changes that are not
// legal lifecycle edges. The hosted backend enforces this through its
// collection access rules; Memory installs this so store-level
// fixtures exercise the same guarantee.
func BookingLifecycleRule(old models.Raw, patch map[string]any) error {
	raw, ok := patch["status"]
	if !ok {
		return nil
	}
	next, ok := raw.(string)
	if !ok {
		return &ValidationError{Fields: map[string]string{"status": "must be a string"}}
	}

	to, err := models.ParseStatus(next)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"status": err.Error()}}
	}

	from := models.BookingStatus(old.GetString("status"))
	if from == to {
		return nil
	}
	if !models.CanTransition(from, to) {
		return &ValidationError{Fields: map[string]string{
			"status": fmt.Sprintf("transition %s -> %s is not allowed", from, to),
		}}
	}
	return nil
}

// BookingCreateRule mirrors the backend's required-field schema for
// booking submissions.
func BookingCreateRule(data map[string]any) error {
	required := []string{"serviceType", "scheduledDate", "address"}
	fields := make(map[string]string)
	for _, key := range required {
		v, ok := data[key]
		if !ok {
			fields[key] = "cannot be blank"
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			fields[key] = "cannot be blank"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Message: "failed to create record", Fields: fields}
	}
	return nil
}
