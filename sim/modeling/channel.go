package modeling

import "github.com/sarchlab/pktflow/sim/timing"

// A Channel models the medium of a link. It delays what goes through it and
// can be switched off.
type Channel struct {
	name     string
	delay    timing.VTime
	disabled bool
}

// NewChannel creates a channel with a propagation delay.
func NewChannel(name string, delay timing.VTime) *Channel {
	if delay < 0 {
		panic("channel delay must not be negative")
	}

	return &Channel{name: name, delay: delay}
}

// Name returns the name of the channel.
func (c *Channel) Name() string {
	return c.name
}

// Delay returns the propagation delay.
func (c *Channel) Delay() timing.VTime {
	return c.delay
}

// IsDisabled tells if the channel is switched off.
func (c *Channel) IsDisabled() bool {
	return c.disabled
}

// SetDisabled switches the channel off or back on.
func (c *Channel) SetDisabled(disabled bool) {
	c.disabled = disabled
}

// PathDelay sums the channel delays from the gate to the end of its path.
func PathDelay(out *Gate) timing.VTime {
	var delay timing.VTime

	for g := out; g.next != nil; g = g.next {
		if g.channel != nil {
			delay += g.channel.Delay()
		}
	}

	return delay
}
