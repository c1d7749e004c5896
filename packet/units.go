package packet

import (
	"fmt"
	"log"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/sarchlab/pktflow/sim/timing"
)

// B is a length in bits.
type B int64

// Bps is a data rate in bits per second.
type Bps int64

// Common lengths.
const (
	Bit  B = 1
	Byte B = 8
)

// Common data rates.
const (
	BitPerSecond Bps = 1
	Kbps         Bps = 1e3
	Mbps         Bps = 1e6
	Gbps         Bps = 1e9
)

// Bytes returns the length in bytes, rounded up.
func (l B) Bytes() int64 {
	return (int64(l) + 7) / 8
}

func (l B) String() string {
	return strconv.FormatInt(int64(l), 10) + "b"
}

func (r Bps) String() string {
	switch {
	case r != 0 && r%Gbps == 0:
		return strconv.FormatInt(int64(r/Gbps), 10) + "Gbps"
	case r != 0 && r%Mbps == 0:
		return strconv.FormatInt(int64(r/Mbps), 10) + "Mbps"
	case r != 0 && r%Kbps == 0:
		return strconv.FormatInt(int64(r/Kbps), 10) + "kbps"
	default:
		return strconv.FormatInt(int64(r), 10) + "bps"
	}
}

const picosecondsPerSecond = uint64(timing.Second)

// DurationOf returns the time it takes to put l bits on a wire of rate r. The
// result is rounded up to the next picosecond, so LengthIn(DurationOf(l, r),
// r) >= l always holds. The computation is exact when r divides l * 10^12.
func DurationOf(l B, r Bps) timing.VTime {
	if l <= 0 {
		log.Panicf("packet: length must be positive, got %d", l)
	}

	if r <= 0 {
		log.Panicf("packet: data rate must be positive, got %d", r)
	}

	hi, lo := bits.Mul64(uint64(l), picosecondsPerSecond)
	if hi >= uint64(r) {
		log.Panicf("packet: duration of %s at %s overflows", l, r)
	}

	q, rem := bits.Div64(hi, lo, uint64(r))
	if rem > 0 {
		q++
	}

	if q > math.MaxInt64 {
		log.Panicf("packet: duration of %s at %s overflows", l, r)
	}

	return timing.VTime(q)
}

// LengthIn returns the number of complete bits sent in d at rate r.
func LengthIn(d timing.VTime, r Bps) B {
	if d <= 0 || r <= 0 {
		return 0
	}

	hi, lo := bits.Mul64(uint64(d), uint64(r))
	if hi >= picosecondsPerSecond {
		return math.MaxInt64
	}

	q, _ := bits.Div64(hi, lo, picosecondsPerSecond)
	if q > math.MaxInt64 {
		return math.MaxInt64
	}

	return B(q)
}

var lengthUnits = []struct {
	suffix string
	scale  int64
}{
	{"Gb", 1e9},
	{"Mb", 1e6},
	{"kb", 1e3},
	{"GB", 8e9},
	{"MB", 8e6},
	{"kB", 8e3},
	{"KB", 8e3},
	{"b", 1},
	{"B", 8},
}

var rateUnits = []struct {
	suffix string
	scale  int64
}{
	{"Gbps", 1e9},
	{"Mbps", 1e6},
	{"kbps", 1e3},
	{"Kbps", 1e3},
	{"bps", 1},
}

// ParseB parses a length such as "1500B", "12kb" or "800". A number without
// a unit is a number of bits.
func ParseB(s string) (B, error) {
	v, err := parseScaled(s, lengthUnits)
	if err != nil {
		return 0, fmt.Errorf("packet: invalid length %q: %w", s, err)
	}

	return B(v), nil
}

// ParseBps parses a data rate such as "100Mbps" or "1Gbps". A number without
// a unit is a number of bits per second.
func ParseBps(s string) (Bps, error) {
	v, err := parseScaled(s, rateUnits)
	if err != nil {
		return 0, fmt.Errorf("packet: invalid data rate %q: %w", s, err)
	}

	return Bps(v), nil
}

func parseScaled(s string, units []struct {
	suffix string
	scale  int64
}) (int64, error) {
	s = strings.TrimSpace(s)
	scale := int64(1)

	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			scale = u.scale

			break
		}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n != 0 && (n > math.MaxInt64/scale || n < math.MinInt64/scale) {
			return 0, strconv.ErrRange
		}

		return n * scale, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	v := f * float64(scale)
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%v is not a whole number", v)
	}

	if v > math.MaxInt64 || v < math.MinInt64 {
		return 0, strconv.ErrRange
	}

	return int64(v), nil
}
