package transceiver

import (
	"log"
	"math"

	"github.com/iti/rngstream"

	"github.com/sarchlab/pktflow/packet"
)

// A DatarateParam gives the data rate of each transmission. It is drawn
// again for every packet.
type DatarateParam interface {
	Datarate() packet.Bps
}

// ConstantDatarate always gives the same rate.
type ConstantDatarate packet.Bps

// Datarate returns the rate.
func (d ConstantDatarate) Datarate() packet.Bps {
	return packet.Bps(d)
}

// UniformDatarate draws rates uniformly from [Min, Max].
type UniformDatarate struct {
	min, max packet.Bps
	rng      *rngstream.RngStream
}

// NewUniformDatarate creates a UniformDatarate that draws from the given
// random stream.
func NewUniformDatarate(
	min, max packet.Bps,
	rng *rngstream.RngStream,
) *UniformDatarate {
	if min <= 0 || max < min {
		log.Panicf("invalid datarate range [%s, %s]", min, max)
	}

	return &UniformDatarate{min: min, max: max, rng: rng}
}

// Datarate draws a rate.
func (d *UniformDatarate) Datarate() packet.Bps {
	span := float64(d.max - d.min + 1)
	r := d.min + packet.Bps(math.Floor(d.rng.RandU01()*span))

	if r > d.max {
		return d.max
	}

	return r
}
