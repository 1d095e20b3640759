package attempt

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// SCORM 1.2 CMITimespan: HHHH:MM:SS[.SS] with 2-4 hour digits.
var timespanRegex = regexp.MustCompile(`^(\d{2,4}):(\d{2}):(\d{2})(?:\.(\d{1,2}))?$`)

// ParseTimespan parses a CMITimespan string into a duration.
func ParseTimespan(s string) (time.Duration, error) {
	m := timespanRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time span %q", s)
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	if mins > 59 || secs > 59 {
		return 0, fmt.Errorf("invalid time span %q", s)
	}
	d := time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second
	if m[4] != "" {
		// fractional seconds come in as 1 or 2 centisecond digits
		frac := m[4]
		if len(frac) == 1 {
			frac += "0"
		}
		cs, _ := strconv.Atoi(frac)
		d += time.Duration(cs) * 10 * time.Millisecond
	}
	return d, nil
}

// FormatTimespan renders a duration as a CMITimespan string, dropping
// fractional seconds.
func FormatTimespan(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
