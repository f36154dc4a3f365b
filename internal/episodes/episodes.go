// Package episodes scans directories of release-style video files and
// extracts episode numbers from their names, supporting bulk encodes
// where the output path carries a {num} placeholder.
package episodes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Episode pairs a source file with the episode number parsed from its
// filename. Number is 0 when no number could be extracted.
type Episode struct {
	Path   string
	Number int
}

var videoExtensions = map[string]bool{
	".mkv": true,
	".mp4": true,
}

// Release names put the episode number in a handful of shapes; the
// patterns are tried in order and the first match wins.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)S\d{1,2}E(\d{1,3})`),
	regexp.MustCompile(`(?i)\bEp(?:isode)?[ ._]?(\d{1,3})\b`),
	regexp.MustCompile(` - (\d{1,3})[ .\[(]`),
	regexp.MustCompile(` - (\d{1,3})$`),
}

// Scan lists the video files directly inside dir, sorted by name, each
// with its parsed episode number.
func Scan(dir string) ([]Episode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}

	episodes := make([]Episode, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !videoExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		episodes = append(episodes, Episode{
			Path:   filepath.Join(dir, name),
			Number: ParseNumber(name),
		})
	}

	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].Path < episodes[j].Path
	})
	return episodes, nil
}

// ParseNumber extracts the episode number from a release-style
// filename, or 0 when none of the known shapes match.
func ParseNumber(name string) int {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, pattern := range episodePatterns {
		match := pattern.FindStringSubmatch(base)
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil || number == 0 {
			continue
		}
		return number
	}
	return 0
}

// ExpandPattern substitutes an episode number into an output pattern
// containing {num}. Numbers are zero-padded to two digits so lexical
// and numeric order agree.
func ExpandPattern(pattern string, number int) (string, error) {
	if !strings.Contains(pattern, "{num}") {
		return "", errors.New("output pattern must contain {num}")
	}
	if number <= 0 {
		return "", fmt.Errorf("invalid episode number %d", number)
	}
	return strings.ReplaceAll(pattern, "{num}", fmt.Sprintf("%02d", number)), nil
}

// DeriveTitle produces a human-readable display title from a filename:
// separators collapse to spaces, bracketed release tags drop away, and
// words are title-cased.
func DeriveTitle(path string) string {
	if path == "" {
		return "Unknown"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = stripBrackets(base)

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown"
	}
	return cases.Title(language.Und).String(title)
}

func stripBrackets(name string) string {
	out := strings.Builder{}
	depth := 0
	for _, r := range name {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}
