package config

import (
	"os"
	"path/filepath"
)

const (
	defaultStateDir       = "~/.local/share/animutools"
	defaultLockFileName   = "vrcencode"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultVideoCodec     = "libx264"
	defaultVideoProfile   = "high"
	defaultPreset         = "medium"
	defaultTune           = "animation"
	defaultCRF            = 18
	defaultTargetBitrate  = 2500
	defaultBufferDuration = 1.0
	defaultAudioCodec     = "aac"
	defaultAudioBitrate   = "160k"
	defaultAudioChannels  = 2
	defaultDownscaleWidth = 1280
	defaultHLSSegmentSecs = 4
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
)

// defaultLockFile is the host-wide encode lock sentinel. All
// invocations on a host must agree on it, so it lives in the shared
// temp directory rather than any per-user state dir.
func defaultLockFile() string {
	return filepath.Join(os.TempDir(), defaultLockFileName)
}

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LockFile: defaultLockFile(),
		},
		Encoder: Encoder{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			VideoCodec:     defaultVideoCodec,
			VideoProfile:   defaultVideoProfile,
			Preset:         defaultPreset,
			Tune:           defaultTune,
			CRF:            defaultCRF,
			TargetBitrate:  defaultTargetBitrate,
			BufferDuration: defaultBufferDuration,
			AudioCodec:     defaultAudioCodec,
			AudioBitrate:   defaultAudioBitrate,
			AudioChannels:  defaultAudioChannels,
			DownscaleWidth: defaultDownscaleWidth,
		},
		HLS: HLS{
			SegmentSeconds: defaultHLSSegmentSecs,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
