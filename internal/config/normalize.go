package config

import "strings"

// normalize expands path fields and backfills empty values with their
// defaults so a partially filled config file behaves predictably.
func (c *Config) normalize() error {
	defaults := Default()

	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaults.Paths.StateDir
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaults.Paths.LockFile
	}

	for _, field := range []struct {
		value    *string
		fallback string
	}{
		{&c.Encoder.FFmpegBinary, defaults.Encoder.FFmpegBinary},
		{&c.Encoder.FFprobeBinary, defaults.Encoder.FFprobeBinary},
		{&c.Encoder.VideoCodec, defaults.Encoder.VideoCodec},
		{&c.Encoder.VideoProfile, defaults.Encoder.VideoProfile},
		{&c.Encoder.Preset, defaults.Encoder.Preset},
		{&c.Encoder.Tune, defaults.Encoder.Tune},
		{&c.Encoder.AudioCodec, defaults.Encoder.AudioCodec},
		{&c.Encoder.AudioBitrate, defaults.Encoder.AudioBitrate},
		{&c.Logging.Level, defaults.Logging.Level},
		{&c.Logging.Format, defaults.Logging.Format},
	} {
		*field.value = strings.TrimSpace(*field.value)
		if *field.value == "" {
			*field.value = field.fallback
		}
	}

	if c.Encoder.CRF == 0 {
		c.Encoder.CRF = defaults.Encoder.CRF
	}
	if c.Encoder.TargetBitrate == 0 {
		c.Encoder.TargetBitrate = defaults.Encoder.TargetBitrate
	}
	if c.Encoder.BufferDuration == 0 {
		c.Encoder.BufferDuration = defaults.Encoder.BufferDuration
	}
	if c.Encoder.AudioChannels == 0 {
		c.Encoder.AudioChannels = defaults.Encoder.AudioChannels
	}
	if c.Encoder.DownscaleWidth == 0 {
		c.Encoder.DownscaleWidth = defaults.Encoder.DownscaleWidth
	}
	if c.HLS.SegmentSeconds == 0 {
		c.HLS.SegmentSeconds = defaults.HLS.SegmentSeconds
	}

	for _, path := range []*string{&c.Paths.StateDir, &c.Paths.LockFile, &c.History.Path} {
		if strings.TrimSpace(*path) == "" {
			continue
		}
		expanded, err := expandPath(*path)
		if err != nil {
			return err
		}
		*path = expanded
	}

	return nil
}
