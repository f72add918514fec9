// Package timecode converts raw elapsed seconds into the display and
// interchange formats used across the player: clock strings, SRT
// timestamps, and transcript line prefixes. All functions are pure.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clock formats seconds as M:SS (or H:MM:SS past the hour mark), the form
// shown in the transport bar and chapter list. Negative input renders as 0:00.
func Clock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// SRTTimestamp formats seconds as HH:MM:SS,mmm with zero-padded fields and
// millisecond precision, the form required by subtitle export.
func SRTTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	millis := int(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseSRTTimestamp parses H:MM:SS,mmm (comma or period before the
// milliseconds) into seconds. The millisecond field may be absent.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	hms := value
	millisText := ""
	if idx := strings.IndexAny(value, ",."); idx >= 0 {
		hms = value[:idx]
		millisText = value[idx+1:]
	}
	parts := strings.Split(hms, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	seconds, errS := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errH != nil || errM != nil || errS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	millis := 0
	if millisText != "" {
		var err error
		millis, err = strconv.Atoi(strings.TrimSpace(millisText))
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// TranscriptPrefix renders the whole-second marker used by plain-text
// transcript export lines, e.g. "[42s]".
func TranscriptPrefix(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	return fmt.Sprintf("[%ds]", int(seconds))
}
