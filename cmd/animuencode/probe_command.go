package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"animutools/internal/encoding"
	"animutools/internal/language"
	"animutools/internal/media/ffprobe"
)

func runProbe(cmd *cobra.Command, ctx *commandContext, input string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	prober := ffprobe.NewProber(cfg.Encoder.FFprobeBinary)
	result, err := prober.Inspect(cmd.Context(), input)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderStreamTable(result))
	fmt.Fprintln(out, renderProbeSummary(result))
	return nil
}

func renderStreamTable(result ffprobe.Result) string {
	rows := make([][]string, 0, len(result.Streams))
	for _, stream := range result.Streams {
		detail := ""
		switch stream.CodecType {
		case "video":
			if stream.Width > 0 && stream.Height > 0 {
				detail = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
			}
		case "audio":
			parts := []string{}
			if stream.Channels > 0 {
				parts = append(parts, fmt.Sprintf("%dch", stream.Channels))
			}
			if stream.SampleRate != "" {
				parts = append(parts, stream.SampleRate+" Hz")
			}
			detail = strings.Join(parts, " ")
		}

		lang := stream.Language()
		if name := language.DisplayName(language.ToISO3(lang)); lang != "" && name != "" {
			lang = name
		}

		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			stream.CodecType,
			stream.CodecName,
			lang,
			stream.Title(),
			detail,
			yesNo(stream.IsDefault()),
		})
	}
	return renderTable(
		[]string{"#", "Type", "Codec", "Language", "Title", "Detail", "Default"},
		rows,
		[]columnAlignment{alignRight},
	)
}

func renderProbeSummary(result ffprobe.Result) string {
	sel := encoding.SelectTracks(result.Streams)
	summary := []string{
		fmt.Sprintf("Format: %s", result.Format.FormatName),
		fmt.Sprintf("Duration: %.1fs", result.DurationSeconds()),
		fmt.Sprintf("Streams: %d video, %d audio, %d subtitle",
			result.VideoStreamCount(), result.AudioStreamCount(), result.SubtitleStreamCount()),
		fmt.Sprintf("Selected audio track: %d of %d", sel.AudioTrack, sel.AudioCount),
	}
	if sel.SubtitleCount > 0 {
		summary = append(summary, fmt.Sprintf("Selected subtitle track: %d of %d (%s)",
			sel.SubtitleTrack, sel.SubtitleCount, sel.SubtitleKind))
	} else {
		summary = append(summary, "Selected subtitle track: none")
	}
	return strings.Join(summary, "\n")
}
