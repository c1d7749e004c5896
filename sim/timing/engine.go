// Package timing provides the discrete event engine. All components share
// one timeline; handlers run one at a time and to completion.
package timing

import "github.com/sarchlab/pktflow/sim/hooking"

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTime
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	// Schedule registers an event. Scheduling an event in the past or an
	// event that is already pending panics.
	Schedule(e Event)

	// Cancel removes a pending event. It returns false if the event was not
	// pending, for example because it has already been handled.
	Cancel(e Event) bool
}

// A SimulationEndHandler is a handler that is called after the simulation ends.
type SimulationEndHandler interface {
	Handle(now VTime)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run will process all the events until the simulation finishes.
	Run() error

	// RunUntil processes the events that happen no later than the given time
	// and then advances the current time to it.
	RunUntil(t VTime) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()

	// RegisterSimulationEndHandler registers a handler that perform some
	// actions after the simulation is finished.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished invokes all the registered SimulationEndHandler
	Finished()
}
