package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var validLogFormats = map[string]struct{}{
	"auto":    {},
	"console": {},
	"json":    {},
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		return fmt.Errorf("encoder.crf must be between 0 and 51, got %d", c.Encoder.CRF)
	}
	if c.Encoder.TargetBitrate < 0 {
		return fmt.Errorf("encoder.target_bitrate must be positive, got %d", c.Encoder.TargetBitrate)
	}
	if c.Encoder.BufferDuration < 0 {
		return fmt.Errorf("encoder.buffer_duration must be positive, got %g", c.Encoder.BufferDuration)
	}
	if c.Encoder.AudioChannels < 1 {
		return fmt.Errorf("encoder.audio_channels must be at least 1, got %d", c.Encoder.AudioChannels)
	}
	if c.Encoder.DownscaleWidth < 2 {
		return fmt.Errorf("encoder.downscale_width must be at least 2, got %d", c.Encoder.DownscaleWidth)
	}
	if c.HLS.SegmentSeconds <= 0 {
		return fmt.Errorf("hls.segment_seconds must be positive, got %g", c.HLS.SegmentSeconds)
	}

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if _, ok := validLogLevels[level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if _, ok := validLogFormats[format]; !ok {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	return nil
}
