// Package ffmpeg wraps invocation of the external ffmpeg binary.
//
// The package owns nothing about which arguments to pass; callers hand
// it a fully assembled argument list. Execution goes through a narrow
// Executor interface so tests can substitute a fake process.
package ffmpeg
