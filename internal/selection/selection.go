// Package selection parses user selections such as "1,3-5,7" into
// zero-based indices.
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies why a selection was rejected.
type Kind int

const (
	InvalidNumber Kind = iota + 1
	InvalidRangeFormat
	OutOfRange
	InvalidRange
)

var (
	ErrInvalidNumber      = errors.New("invalid number")
	ErrInvalidRangeFormat = errors.New("invalid range format")
	ErrOutOfRange         = errors.New("out of range")
	ErrInvalidRange       = errors.New("invalid range")
)

// Error reports the atom that made a selection invalid.
type Error struct {
	Kind  Kind
	Atom  string
	Value int // one-based value for single-number OutOfRange, clamped to the int bounds
	Max   int
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidNumber:
		return fmt.Sprintf("invalid number: %s", e.Atom)
	case InvalidRangeFormat:
		return fmt.Sprintf("invalid range format: %s", e.Atom)
	case OutOfRange:
		if strings.Contains(e.Atom, "-") {
			return fmt.Sprintf("range out of bounds (1-%d): %s", e.Max, e.Atom)
		}
		return fmt.Sprintf("number out of range (1-%d): %s", e.Max, e.Atom)
	case InvalidRange:
		return fmt.Sprintf("invalid range (start > end): %s", e.Atom)
	}
	return fmt.Sprintf("invalid selection: %s", e.Atom)
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case InvalidNumber:
		return ErrInvalidNumber
	case InvalidRangeFormat:
		return ErrInvalidRangeFormat
	case OutOfRange:
		return ErrOutOfRange
	case InvalidRange:
		return ErrInvalidRange
	}
	return nil
}

// Parse converts a one-based selection string into sorted, deduplicated
// zero-based indices below maxCount.
//
// Accepted forms: "1", "1,3,5", "1 3 5", "1-5", "1 - 5" and mixes of them.
// On error no indices are returned.
func Parse(input string, maxCount int) ([]int, error) {
	input = strings.ReplaceAll(input, " - ", "-")
	input = strings.ReplaceAll(input, " ", ",")

	seen := make(map[int]struct{})
	for _, atom := range strings.Split(input, ",") {
		atom = strings.TrimSpace(atom)
		if atom == "" {
			continue
		}

		if start, end, ok := strings.Cut(atom, "-"); ok {
			start = strings.TrimSpace(start)
			end = strings.TrimSpace(end)
			// A dangling hyphen ("3-", "-") is treated like a stray separator.
			if start == "" || end == "" {
				continue
			}

			first, err1 := atoi(start)
			last, err2 := atoi(end)
			if err1 != nil || err2 != nil {
				return nil, &Error{Kind: InvalidRangeFormat, Atom: atom, Max: maxCount}
			}

			if first < 1 || last > maxCount {
				return nil, &Error{Kind: OutOfRange, Atom: atom, Max: maxCount}
			}
			if first > last {
				return nil, &Error{Kind: InvalidRange, Atom: atom, Max: maxCount}
			}

			for i := first - 1; i <= last-1; i++ {
				seen[i] = struct{}{}
			}
			continue
		}

		value, err := atoi(atom)
		if err != nil {
			return nil, &Error{Kind: InvalidNumber, Atom: atom, Max: maxCount}
		}
		if value < 1 || value > maxCount {
			return nil, &Error{Kind: OutOfRange, Atom: atom, Value: value, Max: maxCount}
		}
		seen[value-1] = struct{}{}
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices, nil
}

// atoi parses a decimal integer. Literals too large for an int are clamped
// to the int bounds, so they are reported as out of range rather than as
// malformed.
func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return n, nil
	}
	return n, err
}

// All returns every index below count, the expansion of the "all" keyword.
func All(count int) []int {
	indices := make([]int, 0, max(count, 0))
	for i := 0; i < count; i++ {
		indices = append(indices, i)
	}
	return indices
}
