// ABOUTME: Converts exported key notations to Camelot codes
// ABOUTME: Accepts loose Camelot ("08a") and musical names ("Am", "F# minor", "D♭ maj")

package library

import (
	"strconv"
	"strings"

	"setlist-sidecar/setlist"
)

var musicalToCamelot = map[string]string{
	"abm": "1A", "g#m": "1A",
	"ebm": "2A", "d#m": "2A",
	"bbm": "3A", "a#m": "3A",
	"fm":  "4A",
	"cm":  "5A",
	"gm":  "6A",
	"dm":  "7A",
	"am":  "8A",
	"em":  "9A",
	"bm":  "10A",
	"f#m": "11A", "gbm": "11A",
	"dbm": "12A", "c#m": "12A",

	"b":  "1B", "cb": "1B",
	"f#": "2B", "gb": "2B",
	"db": "3B", "c#": "3B",
	"ab": "4B", "g#": "4B",
	"eb": "5B", "d#": "5B",
	"bb": "6B", "a#": "6B",
	"f":  "7B",
	"c":  "8B",
	"g":  "9B",
	"d":  "10B",
	"a":  "11B",
	"e":  "12B",
}

// NormalizeKey returns the Camelot code for a key as exported by DJ software.
// Values it cannot interpret are returned trimmed but otherwise unchanged.
func NormalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" {
		return ""
	}

	if camelot, ok := normalizeCamelot(key); ok {
		return camelot
	}

	compact := strings.ToLower(strings.Join(strings.Fields(key), ""))
	compact = strings.NewReplacer("♯", "#", "♭", "b").Replace(compact)

	switch {
	case strings.HasSuffix(compact, "minor"):
		compact = strings.TrimSuffix(compact, "minor") + "m"
	case strings.HasSuffix(compact, "min"):
		compact = strings.TrimSuffix(compact, "min") + "m"
	case strings.HasSuffix(compact, "major"):
		compact = strings.TrimSuffix(compact, "major")
	case strings.HasSuffix(compact, "maj"):
		compact = strings.TrimSuffix(compact, "maj")
	}

	if camelot, ok := musicalToCamelot[compact]; ok {
		return camelot
	}

	return key
}

// normalizeCamelot accepts lowercase letters and leading zeros, e.g. "08a"
func normalizeCamelot(key string) (string, bool) {
	if len(key) < 2 {
		return "", false
	}

	letter := strings.ToUpper(key[len(key)-1:])
	if letter != "A" && letter != "B" {
		return "", false
	}

	n, err := strconv.Atoi(key[:len(key)-1])
	if err != nil {
		return "", false
	}

	parsed, err := setlist.ParseCamelotKey(strconv.Itoa(n) + letter)
	if err != nil {
		return "", false
	}

	return parsed.String(), true
}
