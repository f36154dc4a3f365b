// Package ffprobe invokes the external media inspector and parses its
// JSON description of container streams. The probe result is the
// read-only input to track selection and encode planning.
package ffprobe
