package timing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VTime is a point or a span on the simulated timeline, counted in
// picoseconds. Integer time keeps transmission arithmetic exact: a start time
// plus a duration always lands on the same end time, no matter how many
// transmissions came before.
type VTime int64

// Units of VTime.
const (
	Picosecond  VTime = 1
	Nanosecond        = 1000 * Picosecond
	Microsecond       = 1000 * Nanosecond
	Millisecond       = 1000 * Microsecond
	Second            = 1000 * Millisecond
)

// Never is used for unset times, such as the start time of a transmission
// that does not exist.
const Never VTime = -1

// FromSeconds converts a time in seconds to VTime, rounding to the nearest
// picosecond.
func FromSeconds(sec float64) VTime {
	return VTime(math.Round(sec * float64(Second)))
}

// Seconds returns the time in seconds.
func (t VTime) Seconds() float64 {
	return float64(t) / float64(Second)
}

// String formats the time with the largest unit that keeps it integral.
func (t VTime) String() string {
	if t == 0 {
		return "0s"
	}

	for _, u := range timeUnits {
		if t%u.scale == 0 {
			return strconv.FormatInt(int64(t/u.scale), 10) + u.name
		}
	}

	return strconv.FormatInt(int64(t), 10) + "ps"
}

var timeUnits = []struct {
	name  string
	scale VTime
}{
	{"s", Second},
	{"ms", Millisecond},
	{"us", Microsecond},
	{"ns", Nanosecond},
	{"ps", Picosecond},
}

// ParseVTime parses strings such as "10us", "1.5ms" or "250ns". A bare
// number is taken as seconds.
func ParseVTime(s string) (VTime, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0, fmt.Errorf("timing: empty time string")
	}

	scale := Second
	number := str

	for _, u := range timeUnits {
		if strings.HasSuffix(str, u.name) {
			candidate := strings.TrimSpace(strings.TrimSuffix(str, u.name))
			if _, err := strconv.ParseFloat(candidate, 64); err == nil {
				number = candidate
				scale = u.scale

				break
			}
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("timing: cannot parse time %q: %w", s, err)
	}

	scaled := value * float64(scale)
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) ||
		math.Abs(scaled) > float64(math.MaxInt64) {
		return 0, fmt.Errorf("timing: time %q out of range", s)
	}

	return VTime(math.Round(scaled)), nil
}
