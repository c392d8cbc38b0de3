// ABOUTME: Builds set tracks from audio file tags
// ABOUTME: Reads title, artist, album, genre, BPM and Camelot key (tags or "8A - Energy 6" comments), plus length

package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"

	"setlist-sidecar/setlist"
)

var (
	commentKeyRegex = regexp.MustCompile(`(\d+[AB])\s*-\s*Energy`)
	bpmTags         = []string{"BPM", "TBPM", "bpm", "tempo"}
	keyTags         = []string{"TKEY", "INITIALKEY", "initialkey", "KEY", "key"}
)

// ReadTrack reads a track's metadata from its audio file.
// A relative trackPath is resolved against baseDir (typically the playlist's directory).
// Path in the result keeps the entry as given.
func ReadTrack(trackPath string, baseDir string) (setlist.Track, error) {
	fullPath := trackPath
	if !filepath.IsAbs(trackPath) && baseDir != "" {
		fullPath = filepath.Join(baseDir, trackPath)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return setlist.Track{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return setlist.Track{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	title := metadata.Title()
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(trackPath), filepath.Ext(trackPath))
	}

	raw := metadata.Raw()

	key := keyFromTags(raw)
	if key == "" {
		key = extractKey(metadata.Comment())
	}

	return setlist.Track{
		Path:     trackPath,
		Title:    title,
		Artist:   metadata.Artist(),
		Album:    metadata.Album(),
		Genre:    metadata.Genre(),
		BPM:      bpmFromTags(raw),
		Key:      key,
		Duration: readLength(fullPath),
	}, nil
}

// readLength returns the audio length in seconds, or 0 if it cannot be read
func readLength(path string) float64 {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return 0
	}

	return props.Length.Seconds()
}

// bpmFromTags reads BPM from the first custom tag that holds a positive value
func bpmFromTags(raw map[string]interface{}) float64 {
	for _, name := range bpmTags {
		val, exists := raw[name]
		if !exists {
			continue
		}

		var bpm float64

		switch v := val.(type) {
		case string:
			bpm, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
		case int:
			bpm = float64(v)
		case float64:
			bpm = v
		}

		if bpm > 0 {
			return bpm
		}
	}

	return 0
}

// keyFromTags returns the first key tag in Camelot notation, upper-cased
func keyFromTags(raw map[string]interface{}) string {
	for _, name := range keyTags {
		s, ok := raw[name].(string)
		if !ok {
			continue
		}

		if key, err := setlist.ParseCamelotKey(strings.TrimSpace(s)); err == nil {
			return key.String()
		}
	}

	return ""
}

// extractKey extracts Camelot key from comments string
// Example: "8A - Energy 6" -> "8A"
func extractKey(comments string) string {
	matches := commentKeyRegex.FindStringSubmatch(comments)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}
