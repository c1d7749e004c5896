// Package packet defines the units that travel between components: packets,
// the tags attached to them and the signals that carry them on a wire.
package packet

import (
	"fmt"
	"log"

	"github.com/sarchlab/pktflow/sim/id"
)

// A Packet is an opaque payload of a given length.
//
// A packet is owned by exactly one component at a time. Pushing it through a
// gate hands it over; the sender must not touch it afterward.
type Packet struct {
	ID     string
	Name   string
	length B
	tags   TagSet
}

// New creates a packet. Packets must not be empty.
func New(name string, length B) *Packet {
	if length <= 0 {
		log.Panicf("packet: %s has non-positive length %d", name, length)
	}

	return &Packet{
		ID:     id.Generate(),
		Name:   name,
		length: length,
	}
}

// Length returns the length of the packet in bits.
func (p *Packet) Length() B {
	return p.length
}

// Tags returns the tags of the packet.
func (p *Packet) Tags() *TagSet {
	return &p.tags
}

// Dup returns a copy of the packet with a new ID. Tags are copied
// shallowly.
func (p *Packet) Dup() *Packet {
	c := p.clone()
	c.ID = id.Generate()

	return c
}

func (p *Packet) clone() *Packet {
	return &Packet{
		ID:     p.ID,
		Name:   p.Name,
		length: p.length,
		tags:   p.tags.clone(),
	}
}

func (p *Packet) String() string {
	return fmt.Sprintf("%s(%s, %s)", p.Name, p.ID, p.length)
}
