package retro

import (
	"regexp"
	"strconv"
	"time"
)

// SpaceGap is the minimum time between two summary lines that gets a blank
// separator line.
const SpaceGap = 3 * time.Second

var (
	leadingTimestamp = regexp.MustCompile(`^(20[0-5][0-9]-[0-1][0-9]-[0-3][0-9])\s([0-2][0-9]:[0-5][0-9]:[0-5][0-9])`)
	leadingDate      = regexp.MustCompile(`^20[0-5][0-9]-[0-1][0-9]-[0-3][0-9]`)
)

var monthAbbrev = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Space inserts an empty line before any line whose leading timestamp is at
// least SpaceGap away from the previous timestamped line. Lines without a
// timestamp are passed through and do not move the reference time.
func Space(lines []string) []string {
	out := make([]string, 0, len(lines))

	var (
		last    time.Time
		hasLast bool
	)
	for i, line := range lines {
		ts, ok := lineTime(line)
		if ok {
			if i > 0 && hasLast && absDuration(ts.Sub(last)) >= SpaceGap {
				out = append(out, "")
			}
			last, hasLast = ts, true
		}
		out = append(out, line)
	}

	return out
}

func lineTime(line string) (time.Time, bool) {
	m := leadingTimestamp.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse("2006-01-02 15:04:05", m[1]+" "+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Month rewrites a leading YYYY-MM-DD as "YYYY Mon DD ". The character after
// the date is consumed. Other lines are returned unchanged.
func Month(line string) string {
	date := leadingDate.FindString(line)
	if date == "" {
		return line
	}

	m, err := strconv.Atoi(date[5:7])
	if err != nil || m < 1 || m > 12 {
		return line
	}

	rest := ""
	if len(line) > 11 {
		rest = line[11:]
	}
	return date[0:4] + " " + monthAbbrev[m-1] + " " + date[8:10] + " " + rest
}
