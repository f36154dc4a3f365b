// Command animuencode transcodes anime episodes with ffmpeg: it probes
// the input, picks Japanese audio and English subtitles, burns the
// subtitles into the video, and writes either a single file or an HLS
// playlist. Concurrent invocations on the same host serialize on a
// lock file so only one encode runs at a time.
package main
