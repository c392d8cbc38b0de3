// ABOUTME: Camelot wheel parsing and the 0/1/2 harmonic distance between two keys
// ABOUTME: Malformed or unknown keys never fail, they score as incompatible

package setlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Harmonic distance scores.
const (
	SameKey      = 0
	Compatible   = 1
	Incompatible = 2
)

const wheelSize = 12

// CamelotKey represents a parsed Camelot key
type CamelotKey struct {
	Letter string // "A" (minor) or "B" (major)
	Number int    // 1-12
}

// Leading zeros are rejected. The mode letter may be either case.
var camelotKeyRegex = regexp.MustCompile(`^([1-9]\d?)([ABab])$`)

// ParseCamelotKey parses a Camelot key string like "8A" into structured form.
// "8a" parses as 8A.
func ParseCamelotKey(key string) (CamelotKey, error) {
	if key == "" {
		return CamelotKey{}, fmt.Errorf("empty key")
	}

	matches := camelotKeyRegex.FindStringSubmatch(key)
	if len(matches) != 3 {
		return CamelotKey{}, fmt.Errorf("invalid key format: %q", key)
	}

	number, err := strconv.Atoi(matches[1])
	if err != nil || number < 1 || number > wheelSize {
		return CamelotKey{}, fmt.Errorf("invalid key number: %s", matches[1])
	}

	return CamelotKey{Letter: strings.ToUpper(matches[2]), Number: number}, nil
}

// String returns the string representation of a CamelotKey
func (k CamelotKey) String() string {
	return fmt.Sprintf("%d%s", k.Number, k.Letter)
}

// Distance scores how well two Camelot keys mix:
//
//	0 = same key (or both unknown); "8a" and "8A" are the same key
//	1 = relative major/minor, or one step around the wheel in the same mode
//	2 = anything else, including unknown-vs-known and malformed keys
func Distance(keyA, keyB string) int {
	if keyA == "" || keyB == "" {
		if keyA == keyB {
			return SameKey
		}

		return Incompatible
	}

	if keyA == keyB {
		return SameKey
	}

	a, errA := ParseCamelotKey(keyA)
	b, errB := ParseCamelotKey(keyB)

	if errA != nil || errB != nil {
		return Incompatible
	}

	if a == b {
		return SameKey
	}

	return distanceParsed(a, b)
}

func distanceParsed(a, b CamelotKey) int {
	if a.Number == b.Number && a.Letter != b.Letter {
		return Compatible
	}

	if a.Letter == b.Letter && adjacent(a.Number, b.Number) {
		return Compatible
	}

	return Incompatible
}

// adjacent reports whether two wheel positions are neighbours, 12 wrapping to 1
func adjacent(x, y int) bool {
	diff := x - y
	if diff < 0 {
		diff = -diff
	}

	return diff == 1 || diff == wheelSize-1
}

// CompatibleKeys returns key followed by every key at distance 1 from it:
// the relative major/minor and both neighbours in the same mode.
// Returns nil for a malformed key.
func CompatibleKeys(key string) []string {
	k, err := ParseCamelotKey(key)
	if err != nil {
		return nil
	}

	otherLetter := "B"
	if k.Letter == "B" {
		otherLetter = "A"
	}

	prevNum := k.Number - 1
	if prevNum < 1 {
		prevNum = wheelSize
	}

	nextNum := k.Number + 1
	if nextNum > wheelSize {
		nextNum = 1
	}

	return []string{
		k.String(),
		CamelotKey{Letter: otherLetter, Number: k.Number}.String(),
		CamelotKey{Letter: k.Letter, Number: prevNum}.String(),
		CamelotKey{Letter: k.Letter, Number: nextNum}.String(),
	}
}
