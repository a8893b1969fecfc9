package crawler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var germanMonths = map[string]time.Month{
	"Januar":    time.January,
	"Februar":   time.February,
	"März":      time.March,
	"April":     time.April,
	"Mai":       time.May,
	"Juni":      time.June,
	"Juli":      time.July,
	"August":    time.August,
	"September": time.September,
	"Oktober":   time.October,
	"November":  time.November,
	"Dezember":  time.December,
}

func monthFromGermanName(name string) (time.Month, bool) {
	m, ok := germanMonths[name]
	return m, ok
}

// resolveYear assumes the listed month belongs to the current year unless it
// is earlier than the current month, in which case the program has already
// rolled over into the next year.
func resolveYear(month time.Month, now time.Time) int {
	if month < now.Month() {
		return now.Year() + 1
	}
	return now.Year()
}

// parseClock splits "20.15" or "20:15" style times into hours and minutes.
func parseClock(s, sep string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), sep, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected time %q", s)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected time %q", s)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected time %q", s)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("time out of range %q", s)
	}
	return hours, minutes, nil
}

// parseRelativeGermanDate handles the Kinopolis day navigation labels:
// "Heute", "Morgen" or "So. 22.12." style dates.
func parseRelativeGermanDate(dayText string, now time.Time) (time.Time, bool) {
	if strings.Contains(dayText, "Heute") {
		return now, true
	}
	if strings.Contains(dayText, "Morgen") {
		return now.AddDate(0, 0, 1), true
	}
	m := numericDateRe.FindStringSubmatch(dayText)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	monthNum, _ := strconv.Atoi(m[2])
	month := time.Month(monthNum)
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	return time.Date(resolveYear(month, now), month, day, 0, 0, 0, 0, berlin), true
}
