package clock

import (
	"log"
	"math"

	"github.com/iti/rngstream"
	"github.com/sarchlab/pktflow/sim/timing"
)

// Builder can build OffsetClocks.
type Builder struct {
	engine       timing.EventScheduler
	offset       timing.VTime
	maxOffset    timing.VTime
	randomOffset bool
	rng          *rngstream.RngStream
}

// MakeBuilder creates a builder with a zero offset and no bound.
func MakeBuilder() Builder {
	return Builder{maxOffset: timing.Never}
}

// WithEngine sets the engine that the clock reads and schedules on.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithOffset sets a fixed offset of the local clock from the global time.
func (b Builder) WithOffset(offset timing.VTime) Builder {
	b.offset = offset
	b.randomOffset = false

	return b
}

// WithMaxOffset bounds the magnitude of the offset.
func (b Builder) WithMaxOffset(maxOffset timing.VTime) Builder {
	b.maxOffset = maxOffset
	return b
}

// WithRandomOffset draws the offset uniformly from [-max, max] at build
// time, using the given random stream. A max offset must be set.
func (b Builder) WithRandomOffset(rng *rngstream.RngStream) Builder {
	b.rng = rng
	b.randomOffset = true

	return b
}

// Build creates a new OffsetClock. The offset is fixed from this point on.
func (b Builder) Build(name string) *OffsetClock {
	if b.engine == nil {
		log.Panicf("clock %s: engine is not set", name)
	}

	offset := b.offset

	if b.randomOffset {
		if b.maxOffset < 0 {
			log.Panicf("clock %s: random offset requires a max offset", name)
		}

		rng := b.rng
		if rng == nil {
			rng = rngstream.New(name)
		}

		u := rng.RandU01()
		offset = timing.VTime(math.Round((2*u - 1) * float64(b.maxOffset)))
	}

	if b.maxOffset >= 0 && (offset > b.maxOffset || offset < -b.maxOffset) {
		log.Panicf("clock %s: offset %s exceeds the bound %s",
			name, offset, b.maxOffset)
	}

	return &OffsetClock{
		name:   name,
		engine: b.engine,
		offset: offset,
	}
}
