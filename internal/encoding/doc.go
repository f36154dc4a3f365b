// Package encoding derives the full encode plan for a probed input:
// which audio and subtitle tracks to use, the video filter chain, and
// the complete ffmpeg argument list for the selected output mode. It
// also owns the host-wide execution gate that serializes concurrent
// encoder invocations.
package encoding
