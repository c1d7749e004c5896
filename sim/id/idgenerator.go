// Package id generates identifiers for packets, signals and events.
package id

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// A Generator hands out identifiers.
type Generator interface {
	Generate() string
}

var (
	mu        sync.Mutex
	generator Generator
	used      bool
)

// SetGenerator replaces the generator. It panics once an ID has been
// generated, since mixing schemes within a run could repeat IDs.
func SetGenerator(g Generator) {
	mu.Lock()
	defer mu.Unlock()

	if used {
		log.Panic("id: cannot change the generator after generating IDs")
	}

	generator = g
}

// UseUniqueIDs switches to globally unique IDs. Runs that share a recording
// database need them, but the IDs are no longer reproducible.
func UseUniqueIDs() {
	SetGenerator(Unique{})
}

// Generate returns a new ID. Without a call to SetGenerator, IDs count up
// from 1.
func Generate() string {
	mu.Lock()
	if generator == nil {
		generator = &Sequential{}
	}

	g := generator
	used = true
	mu.Unlock()

	return g.Generate()
}

// Sequential generates "1", "2", "3" and so on.
type Sequential struct {
	last uint64
}

// Generate returns the next number.
func (g *Sequential) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.last, 1), 10)
}

// Unique generates xids.
type Unique struct{}

// Generate returns a new xid.
func (Unique) Generate() string {
	return xid.New().String()
}
