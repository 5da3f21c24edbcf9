package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"storyreel/internal/services"
)

// roundingSlack absorbs binary representation error so 1.001 encodes as
// 00:00:01,001 rather than 00:00:01,000.
const roundingSlack = 1e-6

// EncodeTimestamp renders seconds as HH:MM:SS,mmm, truncating toward zero at
// millisecond resolution. Hours widen past two digits when needed.
func EncodeTimestamp(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", services.Wrap(services.ErrValidation, "subtitles", "encode timestamp", fmt.Sprintf("non-finite value %v", seconds), nil)
	}
	if seconds < 0 {
		return "", services.Wrap(services.ErrValidation, "subtitles", "encode timestamp", fmt.Sprintf("negative value %v", seconds), nil)
	}
	total := int64(math.Floor(seconds*1000 + roundingSlack))
	millis := total % 1000
	total /= 1000
	secs := total % 60
	total /= 60
	minutes := total % 60
	hours := total / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis), nil
}

// DecodeTimestamp parses HH:MM:SS,mmm into seconds. The text must contain
// exactly two colons and one comma with purely numeric fields. A millisecond
// field shorter than three digits is read as a decimal fraction, so "05,25"
// is 5.25 seconds.
func DecodeTimestamp(text string) (float64, error) {
	value := strings.TrimSpace(text)
	invalid := func(reason string) error {
		return services.Wrap(services.ErrParse, "subtitles", "decode timestamp", fmt.Sprintf("%s in %q", reason, text), nil)
	}
	if strings.Count(value, ":") != 2 || strings.Count(value, ",") != 1 {
		return 0, invalid("want HH:MM:SS,mmm")
	}
	clock, frac, _ := strings.Cut(value, ",")

	var parsed [3]int64
	for i, field := range strings.Split(clock, ":") {
		n, ok := parseDigits(field)
		if !ok {
			return 0, invalid("non-numeric field")
		}
		parsed[i] = n
	}
	if len(frac) == 0 || len(frac) > 3 {
		return 0, invalid("millisecond field must have 1-3 digits")
	}
	millis, ok := parseDigits(frac + strings.Repeat("0", 3-len(frac)))
	if !ok {
		return 0, invalid("non-numeric field")
	}
	total := ((parsed[0]*60+parsed[1])*60+parsed[2])*1000 + millis
	return float64(total) / 1000, nil
}

func parseDigits(field string) (int64, bool) {
	if field == "" {
		return 0, false
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
