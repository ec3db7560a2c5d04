package store

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// durationPattern matches duration strings like "7d", "2w", "3m", "1y"
var durationPattern = regexp.MustCompile(`^(\d+)([dwmy])$`)

// ParseDuration parses a duration string like "7d", "2w", "3m", "1y".
// Returns the duration or an error if the format is invalid.
//
// Supported units:
//   - d: days
//   - w: weeks (7 days)
//   - m: months (30 days, approximation)
//   - y: years (365 days, approximation)
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("duration string is empty")
	}

	matches := durationPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %s (expected format: <number><unit>, e.g., 7d, 2w, 3m, 1y)", s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid number in duration: %s", matches[1])
	}

	var duration time.Duration
	switch matches[2] {
	case "d":
		duration = time.Duration(num) * 24 * time.Hour
	case "w":
		duration = time.Duration(num) * 7 * 24 * time.Hour
	case "m":
		duration = time.Duration(num) * 30 * 24 * time.Hour
	case "y":
		duration = time.Duration(num) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration unit: %s (expected d, w, m, or y)", matches[2])
	}

	return duration, nil
}

// SinceToUnixTime converts a "since" duration string (e.g., "7d") to a
// Unix timestamp representing that long ago from now.
func SinceToUnixTime(since string) (int64, error) {
	duration, err := ParseDuration(since)
	if err != nil {
		return 0, err
	}
	return time.Now().Add(-duration).Unix(), nil
}

// BuildQueryOptions constructs QueryOptions from CLI flags.
func BuildQueryOptions(limit int, since string) (QueryOptions, error) {
	opts := QueryOptions{Limit: limit}

	if since != "" {
		sinceUnix, err := SinceToUnixTime(since)
		if err != nil {
			return opts, fmt.Errorf("failed to parse --since flag: %w", err)
		}
		opts.SinceTime = &sinceUnix
	}

	return opts, nil
}
