package timing

import (
	"fmt"
	"log"
	"reflect"
	"sync"

	"github.com/sarchlab/pktflow/sim/hooking"
)

// A SerialEngine is an Engine that always run events one after another.
//
// Events are ordered by time. At the same time, primary events run before
// secondary events, and events of the same kind run in the order they were
// scheduled.
type SerialEngine struct {
	hooking.HookableBase

	timeLock       sync.RWMutex
	time           VTime
	queue          EventQueue
	secondaryQueue EventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = NewEventQueue()
	e.secondaryQueue = NewEventQueue()

	return e
}

// Schedule register an event to be happen in the future
func (e *SerialEngine) Schedule(evt Event) {
	now := e.readNow()
	if evt.Time() < now {
		log.Panicf(
			"timing: cannot schedule event in the past, evt %s @ %s, now %s",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}

	if evt.IsSecondary() {
		e.secondaryQueue.Push(evt)
		return
	}

	e.queue.Push(evt)
}

// Cancel removes a pending event from the engine.
func (e *SerialEngine) Cancel(evt Event) bool {
	if e.queue.Remove(evt) {
		return true
	}

	return e.secondaryQueue.Remove(evt)
}

// IsScheduled checks if an event is pending.
func (e *SerialEngine) IsScheduled(evt Event) bool {
	return e.queue.Contains(evt) || e.secondaryQueue.Contains(evt)
}

// PendingEvents returns the number of events that are waiting to be handled.
func (e *SerialEngine) PendingEvents() int {
	return e.queue.Len() + e.secondaryQueue.Len()
}

func (e *SerialEngine) readNow() VTime {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTime) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes all the events scheduled in the SerialEngine
func (e *SerialEngine) Run() error {
	return e.run(Never)
}

// RunUntil processes all the events that happen no later than t. After it
// returns, the current time is t unless a handler failed.
func (e *SerialEngine) RunUntil(t VTime) error {
	if t < e.readNow() {
		log.Panicf("timing: cannot run until %s, now is %s", t, e.readNow())
	}

	err := e.run(t)
	if err != nil {
		return err
	}

	e.writeNow(t)

	return nil
}

func (e *SerialEngine) run(limit VTime) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.noMoreEvent() {
			return nil
		}

		e.pauseLock.Lock()

		evt := e.peekNextEvent()
		if limit != Never && evt.Time() > limit {
			e.pauseLock.Unlock()
			return nil
		}

		e.popEvent(evt)

		now := e.readNow()
		if evt.Time() < now {
			log.Panicf(
				"timing: cannot run event in the past, evt %s @ %s, now %s",
				reflect.TypeOf(evt), evt.Time(), now,
			)
		}

		e.writeNow(evt.Time())

		err := e.handle(evt)

		e.pauseLock.Unlock()

		if err != nil {
			return err
		}
	}
}

func (e *SerialEngine) handle(evt Event) error {
	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	handler := evt.Handler()
	if handler != nil {
		if err := handler.Handle(evt); err != nil {
			return fmt.Errorf(
				"timing: handling %s @ %s: %w",
				reflect.TypeOf(evt), evt.Time(), err,
			)
		}
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return nil
}

func (e *SerialEngine) noMoreEvent() bool {
	return e.queue.Len() == 0 && e.secondaryQueue.Len() == 0
}

func (e *SerialEngine) peekNextEvent() Event {
	primary := e.queue.Peek()
	secondary := e.secondaryQueue.Peek()

	switch {
	case primary == nil:
		return secondary
	case secondary == nil:
		return primary
	case primary.Time() <= secondary.Time():
		return primary
	default:
		return secondary
	}
}

func (e *SerialEngine) popEvent(evt Event) {
	if evt.IsSecondary() {
		e.secondaryQueue.Remove(evt)
		return
	}

	e.queue.Remove(evt)
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the current time at which the engine is at.
// Specifically, the run time of the current event.
func (e *SerialEngine) CurrentTime() VTime {
	return e.readNow()
}

// RegisterSimulationEndHandler registers a handler to be called by Finished.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished should be called after the simulation ends. This function
// calls all the registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.readNow()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
