package config

import (
	"errors"
	"fmt"
	"strings"
)

// x264 accepts this fixed preset vocabulary.
var knownPresets = map[string]struct{}{
	"ultrafast": {},
	"superfast": {},
	"veryfast":  {},
	"faster":    {},
	"fast":      {},
	"medium":    {},
	"slow":      {},
	"slower":    {},
	"veryslow":  {},
	"placebo":   {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.CRF < 0 || c.Encoding.CRF > 51 {
		return fmt.Errorf("encoding.crf must be between 0 and 51, got %d", c.Encoding.CRF)
	}
	if _, ok := knownPresets[c.Encoding.Preset]; !ok {
		return fmt.Errorf("encoding.preset %q is not a known x264 preset", c.Encoding.Preset)
	}
	if c.Encoding.Threads < 0 {
		return errors.New("encoding.threads must be >= 0 (0 = ffmpeg auto)")
	}
	if !validBitrate(c.Encoding.AudioBitrate) {
		return fmt.Errorf("encoding.audio_bitrate %q is not a bitrate like 192k", c.Encoding.AudioBitrate)
	}
	return nil
}

func validBitrate(value string) bool {
	digits := strings.TrimSuffix(value, "k")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
