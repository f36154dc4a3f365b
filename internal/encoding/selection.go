package encoding

import (
	"strings"

	"animutools/internal/media/ffprobe"
)

// SubtitleKind distinguishes text subtitles, which render through the
// subtitles filter, from image subtitles, which must be scaled and
// overlaid onto the video.
type SubtitleKind string

const (
	SubtitleText  SubtitleKind = "text"
	SubtitleImage SubtitleKind = "image"
)

// Selection is the outcome of the track scan. Indices are scoped to
// streams of their own type (the Nth audio stream, regardless of how
// many video or subtitle streams precede it). It is built once per run
// and never mutated afterwards.
type Selection struct {
	AudioTrack    int
	SubtitleTrack int
	SubtitleKind  SubtitleKind

	AudioCount    int
	SubtitleCount int
}

// isImageSubtitle reports whether a subtitle codec carries bitmap data
// rather than renderable text.
func isImageSubtitle(codecName string) bool {
	switch codecName {
	case "dvd_subtitle", "hdmv_pgs_subtitle":
		return true
	}
	return false
}

// SelectTracks scans the probed streams once, left to right, and picks
// the audio and subtitle tracks to encode.
//
// Audio prefers Japanese over whatever the container ordered first; the
// last Japanese-tagged stream wins when several exist. Subtitles start
// from the default-flagged stream and are overridden by the first
// English-tagged stream encountered. Language tags compare literally
// against "jpn" and "eng"; alternate spellings like "ja" or "japanese"
// do not match. Both subtitle rules write the same
// fields during the single pass, so a default-flagged stream appearing
// after the first English one takes the track back; that long-standing
// behavior is pinned by tests and deliberately not "fixed" into a
// priority scheme.
//
// Files with no audio or subtitle streams select index 0 of each, with
// text rendering; bad indices surface later as an encoder failure.
func SelectTracks(streams []ffprobe.Stream) Selection {
	sel := Selection{SubtitleKind: SubtitleText}

	audioCount := 0
	subCount := 0
	foundEngSub := false

	for _, stream := range streams {
		switch {
		case strings.EqualFold(stream.CodecType, "audio"):
			if stream.Language() == "jpn" {
				sel.AudioTrack = audioCount
			}
			audioCount++

		case strings.EqualFold(stream.CodecType, "subtitle"):
			if stream.IsDefault() {
				sel.SubtitleTrack = subCount
				if isImageSubtitle(stream.CodecName) {
					sel.SubtitleKind = SubtitleImage
				}
			}
			if !foundEngSub && stream.Language() == "eng" {
				sel.SubtitleTrack = subCount
				foundEngSub = true
				if isImageSubtitle(stream.CodecName) {
					sel.SubtitleKind = SubtitleImage
				}
			}
			subCount++
		}
	}

	sel.AudioCount = audioCount
	sel.SubtitleCount = subCount
	return sel
}

// WithSubtitleOverride returns a copy of the selection with the caller
// supplied subtitle index. The index is not validated here; an
// out-of-range value fails inside the encoder. The subtitle kind keeps
// whatever the scan determined.
func (s Selection) WithSubtitleOverride(index int) Selection {
	s.SubtitleTrack = index
	return s
}
