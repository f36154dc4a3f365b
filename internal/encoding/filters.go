package encoding

import (
	"errors"
	"fmt"
	"strings"
)

// FilterOptions carries the caller knobs that shape the video filter
// chain.
type FilterOptions struct {
	// Downscale fixes the output width and lets ffmpeg compute the
	// height to preserve aspect ratio.
	Downscale      bool
	DownscaleWidth int

	// SubtitleFile burns an external subtitle file instead of the
	// subtitle track embedded in the input. Text subtitles only.
	SubtitleFile string
}

// FilterChain is the planned video filtering. Text subtitle burn-in
// yields a plain -vf chain; image subtitle burn-in needs -filter_complex
// because the subtitle stream becomes a second filter input.
type FilterChain struct {
	Simple []string

	Complex     string
	OutputLabel string
}

// IsComplex reports whether the chain must go through -filter_complex.
func (c FilterChain) IsComplex() bool {
	return c.Complex != ""
}

// BuildFilters plans the video filter chain for a selection. Pixel
// format normalization always comes first, the optional downscale
// second, subtitle burn-in last.
func BuildFilters(sel Selection, input string, opts FilterOptions) (FilterChain, error) {
	base := []string{"format=yuv420p"}
	if opts.Downscale {
		width := opts.DownscaleWidth
		if width <= 0 {
			width = 1280
		}
		base = append(base, fmt.Sprintf("scale=%d:-1", width))
	}

	if sel.SubtitleKind == SubtitleImage {
		if strings.TrimSpace(opts.SubtitleFile) != "" {
			return FilterChain{}, errors.New("image subtitles must come from the input container; external subtitle files only work with text subtitles")
		}
		// scale2ref sizes the bitmap subtitle stream against the
		// filtered video, then the overlay composites it on top.
		graph := fmt.Sprintf(
			"[0:v]%s[vid];[0:s:%d][vid]scale2ref[subs][ref];[ref][subs]overlay[vout]",
			strings.Join(base, ","), sel.SubtitleTrack,
		)
		return FilterChain{Complex: graph, OutputLabel: "[vout]"}, nil
	}

	source := input
	if strings.TrimSpace(opts.SubtitleFile) != "" {
		source = opts.SubtitleFile
	}
	chain := append(base, fmt.Sprintf(
		"subtitles=filename=%s:stream_index=%d",
		escapeFilterValue(source), sel.SubtitleTrack,
	))
	return FilterChain{Simple: chain}, nil
}

// escapeFilterValue quotes characters that the ffmpeg filter grammar
// treats specially inside option values (separators and quotes).
func escapeFilterValue(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`[`, `\[`,
		`]`, `\]`,
		`,`, `\,`,
		`;`, `\;`,
	)
	return replacer.Replace(value)
}
