package encoding

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"animutools/internal/config"
)

// OutputMode selects how the encode is packaged.
type OutputMode string

const (
	// ModeSingleFile writes one progressive-download friendly file.
	ModeSingleFile OutputMode = "single_file"
	// ModeHLS writes a VOD playlist plus a sibling segment directory.
	ModeHLS OutputMode = "hls"
	// ModeRemux repackages the input without re-encoding.
	ModeRemux OutputMode = "remux"
)

const (
	playlistExt      = ".m3u8"
	segmentDirSuffix = ".ts"
	segmentPattern   = "%04d.ts"

	// Fixed GOP bounds for clean HLS segment boundaries. Constants
	// rather than framerate-derived so segment cuts stay predictable
	// across sources.
	hlsGOPSize   = 60
	hlsKeyintMin = 60

	// testDurationSeconds caps output length in test mode.
	testDurationSeconds = 60
)

// Request carries the per-invocation encode parameters after config
// defaults and CLI flags have been merged.
type Request struct {
	Input  string
	Output string

	SubtitleIndex *int
	SubtitleFile  string
	Downscale     bool

	TargetBitrate  int
	BufferDuration float64

	HLS     bool
	HLSTime float64
	Remux   bool

	Test   bool
	DryRun bool
}

// ResolveMode picks the output packaging. Remux wins over an explicit
// HLS request; a playlist extension on the output path selects HLS even
// without the flag.
func ResolveMode(req Request) OutputMode {
	switch {
	case req.Remux:
		return ModeRemux
	case req.HLS, strings.EqualFold(filepath.Ext(req.Output), playlistExt):
		return ModeHLS
	default:
		return ModeSingleFile
	}
}

// Plan is the complete instruction set for one encoder invocation.
// Built once, immutable afterwards.
type Plan struct {
	Mode   OutputMode
	Input  string
	Output string

	// SegmentDir is the HLS segment directory; empty in other modes.
	SegmentDir string

	args []string
}

// Args returns a copy of the assembled encoder argument list.
func (p Plan) Args() []string {
	return append([]string(nil), p.args...)
}

// CommandLine renders the argument list for human inspection in dry-run
// mode: flags flow inline, values sit quoted on their own line.
func (p Plan) CommandLine() string {
	var b strings.Builder
	for _, arg := range p.args {
		if strings.HasPrefix(arg, "-") {
			b.WriteString(arg)
			b.WriteByte(' ')
		} else {
			fmt.Fprintf(&b, "'%s' \\\n", arg)
		}
	}
	return strings.TrimRight(b.String(), " \\\n")
}

// BuildPlan assembles the encoder option set for the selection and
// filter chain. The chain is ignored in remux mode.
func BuildPlan(sel Selection, chain FilterChain, req Request, enc config.Encoder, hls config.HLS) Plan {
	mode := ResolveMode(req)
	plan := Plan{Mode: mode, Input: req.Input, Output: req.Output}

	args := []string{"-y", "-i", req.Input}

	if mode == ModeRemux {
		args = append(args, "-map", "0", "-c", "copy")
	} else {
		if chain.IsComplex() {
			args = append(args, "-filter_complex", chain.Complex, "-map", chain.OutputLabel)
		} else {
			args = append(args, "-map", "0:v:0", "-vf", strings.Join(chain.Simple, ","))
		}
		args = append(args, "-map", fmt.Sprintf("0:a:%d", sel.AudioTrack))

		// Cap bufsize to the expected buffer duration so bitrate
		// spikes cannot cause underruns during playback; the crf
		// target degrades to compensate.
		bufsize := int(math.Ceil(float64(req.TargetBitrate) * req.BufferDuration))
		args = append(args,
			"-c:v", enc.VideoCodec,
			"-profile:v", enc.VideoProfile,
			"-preset", enc.Preset,
			"-tune", enc.Tune,
			"-crf", strconv.Itoa(enc.CRF),
			"-maxrate", fmt.Sprintf("%dK", req.TargetBitrate),
			"-bufsize", fmt.Sprintf("%dK", bufsize),
			"-c:a", enc.AudioCodec,
			"-b:a", enc.AudioBitrate,
			"-ac", strconv.Itoa(enc.AudioChannels),
		)

		if mode == ModeHLS {
			segmentTime := req.HLSTime
			if segmentTime <= 0 {
				segmentTime = hls.SegmentSeconds
			}
			plan.SegmentDir = req.Output + segmentDirSuffix
			args = append(args,
				"-g", strconv.Itoa(hlsGOPSize),
				"-keyint_min", strconv.Itoa(hlsKeyintMin),
				"-f", "hls",
				"-hls_playlist_type", "vod",
				"-hls_time", strconv.FormatFloat(segmentTime, 'f', -1, 64),
				"-hls_list_size", "0",
				"-hls_base_url", filepath.Base(req.Output)+segmentDirSuffix+"/",
				"-hls_segment_filename", filepath.Join(plan.SegmentDir, segmentPattern),
			)
		} else {
			args = append(args, "-movflags", "faststart")
		}
	}

	if req.Test {
		args = append(args, "-t", strconv.Itoa(testDurationSeconds))
	}

	args = append(args, req.Output)
	plan.args = args
	return plan
}
