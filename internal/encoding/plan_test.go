package encoding

import (
	"strings"
	"testing"

	"animutools/internal/config"
)

func planConfig() (config.Encoder, config.HLS) {
	cfg := config.Default()
	return cfg.Encoder, cfg.HLS
}

func textChain(t *testing.T, sel Selection, input string) FilterChain {
	t.Helper()
	chain, err := BuildFilters(sel, input, FilterOptions{})
	if err != nil {
		t.Fatalf("BuildFilters: %v", err)
	}
	return chain
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want OutputMode
	}{
		{"default", Request{Output: "out.mp4"}, ModeSingleFile},
		{"hls flag", Request{Output: "out.mp4", HLS: true}, ModeHLS},
		{"playlist extension", Request{Output: "foo.m3u8"}, ModeHLS},
		{"remux", Request{Output: "out.mp4", Remux: true}, ModeRemux},
		{"remux beats hls", Request{Output: "foo.m3u8", HLS: true, Remux: true}, ModeRemux},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMode(tt.req); got != tt.want {
				t.Fatalf("ResolveMode = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildPlanSingleFile(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{AudioTrack: 1, SubtitleKind: SubtitleText}
	req := Request{Input: "in.mkv", Output: "out.mp4", TargetBitrate: 2500, BufferDuration: 1.0}

	plan := BuildPlan(sel, textChain(t, sel, "in.mkv"), req, enc, hls)
	args := strings.Join(plan.Args(), " ")

	if plan.Mode != ModeSingleFile {
		t.Fatalf("unexpected mode %s", plan.Mode)
	}
	for _, want := range []string{
		"-map 0:v:0",
		"-map 0:a:1",
		"-c:v libx264",
		"-profile:v high",
		"-preset medium",
		"-tune animation",
		"-crf 18",
		"-maxrate 2500K",
		"-bufsize 2500K",
		"-c:a aac",
		"-b:a 160k",
		"-ac 2",
		"-movflags faststart",
	} {
		if !strings.Contains(args, want) {
			t.Fatalf("missing %q in args: %s", want, args)
		}
	}
	if !strings.HasSuffix(args, "out.mp4") {
		t.Fatalf("output must be last arg: %s", args)
	}
	if plan.SegmentDir != "" {
		t.Fatalf("single file mode must not plan a segment dir, got %q", plan.SegmentDir)
	}
}

func TestBuildPlanBufferSizeCeil(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{SubtitleKind: SubtitleText}
	req := Request{Input: "in.mkv", Output: "out.mp4", TargetBitrate: 3000, BufferDuration: 1.5}

	plan := BuildPlan(sel, textChain(t, sel, "in.mkv"), req, enc, hls)
	if !strings.Contains(strings.Join(plan.Args(), " "), "-bufsize 4500K") {
		t.Fatalf("expected ceil(3000*1.5)=4500K, got %v", plan.Args())
	}

	req.BufferDuration = 0.7
	plan = BuildPlan(sel, textChain(t, sel, "in.mkv"), req, enc, hls)
	if !strings.Contains(strings.Join(plan.Args(), " "), "-bufsize 2100K") {
		t.Fatalf("expected ceil(3000*0.7)=2100K, got %v", plan.Args())
	}
}

func TestBuildPlanHLS(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{SubtitleKind: SubtitleText}
	req := Request{
		Input: "in.mkv", Output: "/media/out.m3u8",
		TargetBitrate: 2500, BufferDuration: 1.0, HLSTime: 4,
	}

	plan := BuildPlan(sel, textChain(t, sel, "in.mkv"), req, enc, hls)
	if plan.Mode != ModeHLS {
		t.Fatalf("expected hls mode from extension, got %s", plan.Mode)
	}
	if plan.SegmentDir != "/media/out.m3u8.ts" {
		t.Fatalf("unexpected segment dir %q", plan.SegmentDir)
	}

	args := strings.Join(plan.Args(), " ")
	for _, want := range []string{
		"-g 60",
		"-keyint_min 60",
		"-f hls",
		"-hls_playlist_type vod",
		"-hls_time 4",
		"-hls_list_size 0",
		"-hls_base_url out.m3u8.ts/",
		"-hls_segment_filename /media/out.m3u8.ts/%04d.ts",
	} {
		if !strings.Contains(args, want) {
			t.Fatalf("missing %q in args: %s", want, args)
		}
	}
	if strings.Contains(args, "faststart") {
		t.Fatalf("hls plan must not carry movflags: %s", args)
	}
}

func TestBuildPlanRemuxDropsEncodingOptions(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{AudioTrack: 1, SubtitleKind: SubtitleText}
	req := Request{
		Input: "in.mkv", Output: "out.mkv", Remux: true,
		TargetBitrate: 2500, BufferDuration: 1.0, HLS: true,
	}

	plan := BuildPlan(sel, FilterChain{}, req, enc, hls)
	args := strings.Join(plan.Args(), " ")
	if args != "-y -i in.mkv -map 0 -c copy out.mkv" {
		t.Fatalf("unexpected remux args: %s", args)
	}
}

func TestBuildPlanTestModeCapsDuration(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{SubtitleKind: SubtitleText}
	for _, req := range []Request{
		{Input: "in.mkv", Output: "out.mp4", Test: true, TargetBitrate: 2500, BufferDuration: 1},
		{Input: "in.mkv", Output: "out.mkv", Test: true, Remux: true},
	} {
		chain := FilterChain{}
		if !req.Remux {
			chain = textChain(t, sel, "in.mkv")
		}
		plan := BuildPlan(sel, chain, req, enc, hls)
		if !strings.Contains(strings.Join(plan.Args(), " "), "-t 60") {
			t.Fatalf("expected -t 60 in %v", plan.Args())
		}
	}
}

func TestBuildPlanImageSubtitleGraph(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{SubtitleTrack: 1, SubtitleKind: SubtitleImage}
	chain, err := BuildFilters(sel, "in.mkv", FilterOptions{})
	if err != nil {
		t.Fatalf("BuildFilters: %v", err)
	}
	req := Request{Input: "in.mkv", Output: "out.mp4", TargetBitrate: 2500, BufferDuration: 1}

	plan := BuildPlan(sel, chain, req, enc, hls)
	args := strings.Join(plan.Args(), " ")
	if !strings.Contains(args, "-filter_complex") || !strings.Contains(args, "-map [vout]") {
		t.Fatalf("expected filter_complex mapping, got %s", args)
	}
	if strings.Contains(args, "-vf") {
		t.Fatalf("image path must not also use -vf: %s", args)
	}
}

func TestCommandLineFormatting(t *testing.T) {
	enc, hls := planConfig()
	sel := Selection{SubtitleKind: SubtitleText}
	req := Request{Input: "in.mkv", Output: "out.mp4", TargetBitrate: 2500, BufferDuration: 1}

	plan := BuildPlan(sel, textChain(t, sel, "in.mkv"), req, enc, hls)
	listing := plan.CommandLine()
	if listing == "" {
		t.Fatal("dry-run listing must not be empty")
	}
	if !strings.Contains(listing, "'in.mkv' \\\n") {
		t.Fatalf("values should be quoted on their own line: %q", listing)
	}
	if !strings.Contains(listing, "-y -i ") {
		t.Fatalf("flags should flow inline: %q", listing)
	}
	if strings.HasSuffix(listing, "\\") || strings.HasSuffix(listing, "\n") {
		t.Fatalf("listing should not end with a continuation: %q", listing)
	}
}
