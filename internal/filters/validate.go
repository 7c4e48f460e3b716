package filters

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidatePercent checks that a knob value sits in the 0..100 range.
func ValidatePercent(name string, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", name, value)
	}
	return nil
}

// ValidateScaleHeight checks that a target output height is a positive even
// integer, which libx264 requires for yuv420p output.
func ValidateScaleHeight(height int) error {
	if height <= 0 || height%2 != 0 {
		return fmt.Errorf("scale height must be a positive even integer (e.g., 720, 480), got %d", height)
	}
	return nil
}

// ValidateSpeed checks that the playback speed factor is usable.
func ValidateSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("speed must be > 0.0, got %v", speed)
	}
	return nil
}

// ParsePercent parses interactive input into a validated percentage. The
// name identifies the knob in error messages.
func ParsePercent(name, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer between 0 and 100, got %q", name, raw)
	}
	if err := ValidatePercent(name, value); err != nil {
		return 0, err
	}
	return value, nil
}

// ParseScaleHeight parses interactive input into a validated output height.
func ParseScaleHeight(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%q must be a positive even integer", raw)
	}
	if err := ValidateScaleHeight(value); err != nil {
		return 0, err
	}
	return value, nil
}
