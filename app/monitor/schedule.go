package monitor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/nga-monitor/app/config"
)

const defaultCheckInterval = 300 * time.Second

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

var (
	weekdaySet = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	weekendSet = []time.Weekday{time.Saturday, time.Sunday}
)

// isDue reports whether a thread qualifies for a check. A thread that was
// never checked is always due.
func isDue(thread config.MonitoredThread, lastChecked time.Time, checked bool, now time.Time) bool {
	if !checked {
		return true
	}
	return now.After(lastChecked.Add(effectiveInterval(thread, now)))
}

// effectiveInterval resolves the check interval for a thread at a given
// instant. Schedule rules are evaluated in list order and the first rule
// whose day set and time window both contain the instant wins; otherwise
// the thread's own interval applies, or the global default when that is zero.
func effectiveInterval(thread config.MonitoredThread, now time.Time) time.Duration {
	defaultInterval := defaultCheckInterval
	if thread.CheckInterval != 0 {
		defaultInterval = time.Duration(thread.CheckInterval) * time.Second
	}
	if len(thread.CheckSchedule) == 0 {
		return defaultInterval
	}

	weekday := now.Weekday()
	clock := now.Format("15:04")

	for _, rule := range thread.CheckSchedule {
		days := expandDays(thread.TID, rule.Days)
		if !containsWeekday(days, weekday) {
			continue
		}
		if timeInRange(clock, rule.StartTime, rule.EndTime) {
			return time.Duration(rule.Interval) * time.Second
		}
	}

	return defaultInterval
}

// timeInRange checks "HH:MM" containment: half-open [start, end) for normal
// windows, wrap-around past midnight when start > end. Lexicographic
// comparison is exact for zero-padded 24h clock strings.
func timeInRange(current, start, end string) bool {
	if start <= end {
		return current >= start && current < end
	}
	return current >= start || current < end
}

func expandDays(tid uint64, tokens []string) []time.Weekday {
	var days []time.Weekday
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "weekdays":
			days = append(days, weekdaySet...)
		case "weekends":
			days = append(days, weekendSet...)
		default:
			day, err := parseWeekday(token)
			if err != nil {
				slog.Warn("Unrecognized schedule day token, ignoring", "tid", tid, "token", token)
				continue
			}
			days = append(days, day)
		}
	}
	return days
}

func parseWeekday(token string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(token)]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", token)
	}
	return day, nil
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
