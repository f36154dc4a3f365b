package encoding

import (
	"testing"

	"animutools/internal/media/ffprobe"
)

func audioStream(lang string) ffprobe.Stream {
	s := ffprobe.Stream{CodecType: "audio", CodecName: "flac"}
	if lang != "" {
		s.Tags = map[string]string{"language": lang}
	}
	return s
}

func subStream(codec, lang string, def bool) ffprobe.Stream {
	s := ffprobe.Stream{CodecType: "subtitle", CodecName: codec}
	if lang != "" {
		s.Tags = map[string]string{"language": lang}
	}
	if def {
		s.Disposition = map[string]int{"default": 1}
	}
	return s
}

func video() ffprobe.Stream {
	return ffprobe.Stream{CodecType: "video", CodecName: "h264"}
}

func TestSelectTracksNoJapaneseAudioDefaultsToZero(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		video(),
		audioStream("eng"),
		audioStream("ger"),
	})
	if sel.AudioTrack != 0 {
		t.Fatalf("expected audio track 0, got %d", sel.AudioTrack)
	}
	if sel.AudioCount != 2 {
		t.Fatalf("expected audio count 2, got %d", sel.AudioCount)
	}
}

func TestSelectTracksSingleJapaneseAudio(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		video(),
		audioStream("eng"),
		audioStream("jpn"),
		audioStream("ger"),
	})
	if sel.AudioTrack != 1 {
		t.Fatalf("expected scoped audio index 1, got %d", sel.AudioTrack)
	}
}

func TestSelectTracksLastJapaneseAudioWins(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		audioStream("jpn"),
		audioStream("eng"),
		audioStream("jpn"),
	})
	if sel.AudioTrack != 2 {
		t.Fatalf("expected last jpn stream (index 2), got %d", sel.AudioTrack)
	}
}

func TestSelectTracksScopedIndexSkipsOtherTypes(t *testing.T) {
	// The jpn audio stream is the 4th container stream but the 2nd
	// audio stream; scoped indexing must return 1.
	sel := SelectTracks([]ffprobe.Stream{
		video(),
		audioStream("eng"),
		subStream("ass", "eng", false),
		audioStream("jpn"),
	})
	if sel.AudioTrack != 1 {
		t.Fatalf("expected scoped audio index 1, got %d", sel.AudioTrack)
	}
}

func TestSelectTracksUntaggedAudioStillCounts(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		audioStream(""),
		audioStream("jpn"),
	})
	if sel.AudioTrack != 1 {
		t.Fatalf("expected scoped audio index 1, got %d", sel.AudioTrack)
	}
}

// Language tags compare literally: a file tagged "ja" or "JPN" has no
// stream equal to "jpn", so the selection stays at the first audio
// stream.
func TestSelectTracksLiteralTagComparison(t *testing.T) {
	for _, tag := range []string{"ja", "JPN", "japanese"} {
		sel := SelectTracks([]ffprobe.Stream{
			audioStream("eng"),
			audioStream(tag),
		})
		if sel.AudioTrack != 0 {
			t.Fatalf("tag %q must not match jpn, got track %d", tag, sel.AudioTrack)
		}
	}

	sel := SelectTracks([]ffprobe.Stream{
		subStream("ass", "en", false),
		subStream("ass", "English", false),
	})
	if sel.SubtitleTrack != 0 {
		t.Fatalf("non-literal eng tags must not match, got track %d", sel.SubtitleTrack)
	}
}

func TestSelectTracksDefaultTextSubtitle(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		video(),
		audioStream("jpn"),
		subStream("ass", "ger", false),
		subStream("ass", "ger", true),
	})
	if sel.SubtitleTrack != 1 {
		t.Fatalf("expected default-flagged track 1, got %d", sel.SubtitleTrack)
	}
	if sel.SubtitleKind != SubtitleText {
		t.Fatalf("expected text kind, got %s", sel.SubtitleKind)
	}
}

func TestSelectTracksFirstEnglishSubtitleWins(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		subStream("ass", "ger", false),
		subStream("ass", "eng", false),
		subStream("ass", "eng", false),
	})
	if sel.SubtitleTrack != 1 {
		t.Fatalf("expected first eng track 1, got %d", sel.SubtitleTrack)
	}
}

// TestSelectTracksLegacyTrace pins the single-pass mutate-in-place
// behavior when the default-flag and english-tag rules overlap. An
// image-coded default subtitle before an english text subtitle: the
// english rule fires later in the scan and takes the track, but the
// image kind set by the default rule is sticky.
func TestSelectTracksLegacyTrace(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		subStream("hdmv_pgs_subtitle", "jpn", true),
		subStream("ass", "eng", false),
	})
	if sel.SubtitleTrack != 1 {
		t.Fatalf("expected eng track 1, got %d", sel.SubtitleTrack)
	}
	if sel.SubtitleKind != SubtitleImage {
		t.Fatalf("expected sticky image kind, got %s", sel.SubtitleKind)
	}
}

// A default-flagged stream after the first english stream takes the
// track back; the english rule only ever fires once.
func TestSelectTracksDefaultAfterEnglishTakesTrackBack(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		subStream("ass", "eng", false),
		subStream("ass", "jpn", true),
		subStream("ass", "eng", false),
	})
	if sel.SubtitleTrack != 1 {
		t.Fatalf("expected later default track 1, got %d", sel.SubtitleTrack)
	}
}

func TestSelectTracksImageEnglishSubtitle(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		subStream("dvd_subtitle", "eng", false),
	})
	if sel.SubtitleKind != SubtitleImage {
		t.Fatalf("expected image kind for dvd_subtitle, got %s", sel.SubtitleKind)
	}
}

func TestSelectTracksEmptyProbe(t *testing.T) {
	sel := SelectTracks(nil)
	if sel.AudioTrack != 0 || sel.SubtitleTrack != 0 || sel.SubtitleKind != SubtitleText {
		t.Fatalf("expected zero-value defaults, got %+v", sel)
	}
}

func TestWithSubtitleOverrideKeepsKind(t *testing.T) {
	sel := SelectTracks([]ffprobe.Stream{
		subStream("hdmv_pgs_subtitle", "eng", false),
	})
	overridden := sel.WithSubtitleOverride(7)
	if overridden.SubtitleTrack != 7 {
		t.Fatalf("expected override to 7, got %d", overridden.SubtitleTrack)
	}
	if overridden.SubtitleKind != SubtitleImage {
		t.Fatalf("override must not reset kind, got %s", overridden.SubtitleKind)
	}
	if sel.SubtitleTrack != 0 {
		t.Fatalf("original selection mutated: %+v", sel)
	}
}
