package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange checks min <= d <= max.
func ValidateDurationRange(d, min, max time.Duration) error {
	if d < min || d > max {
		return fmt.Errorf("duration must be between %v and %v, got %v", min, max, d)
	}
	return nil
}
