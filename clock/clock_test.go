package clock

import (
	"github.com/iti/rngstream"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pktflow/sim/naming"
	"github.com/sarchlab/pktflow/sim/timing"
)

type firingRecorder struct {
	naming.NamedBase
	engine     timing.TimeTeller
	clock      Clock
	firedAt    []timing.VTime
	firedClock []Time
}

func (r *firingRecorder) Handle(e timing.Event) error {
	timer := e.(*Timer)
	Expect(timer.IsScheduled()).To(BeFalse())

	r.firedAt = append(r.firedAt, r.engine.CurrentTime())
	r.firedClock = append(r.firedClock, r.clock.Now())

	return nil
}

var _ = Describe("OffsetClock", func() {
	var (
		engine   *timing.SerialEngine
		clk      *OffsetClock
		recorder *firingRecorder
		timer    *Timer
	)

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		clk = MakeBuilder().
			WithEngine(engine).
			WithOffset(3 * timing.Microsecond).
			WithMaxOffset(10 * timing.Microsecond).
			Build("Clock")
		recorder = &firingRecorder{
			NamedBase: naming.MakeNamedBase("Recorder"),
			engine:    engine,
			clock:     clk,
		}
		timer = NewTimer("Timer", recorder, recorder)
	})

	It("should read the global time plus the offset", func() {
		Expect(clk.Now()).To(Equal(Time(3 * timing.Microsecond)))
		Expect(clk.ToSimTime(Time(5 * timing.Microsecond))).
			To(Equal(2 * timing.Microsecond))
		Expect(clk.FromSimTime(timing.Microsecond)).
			To(Equal(Time(4 * timing.Microsecond)))
	})

	It("should fire timers at the translated global time", func() {
		clk.ScheduleAt(Time(10*timing.Microsecond), timer)

		Expect(timer.IsScheduled()).To(BeTrue())
		Expect(timer.Time()).To(Equal(7 * timing.Microsecond))
		Expect(timer.ArrivalClockTime()).To(Equal(Time(10 * timing.Microsecond)))

		Expect(engine.Run()).To(Succeed())

		Expect(recorder.firedAt).To(Equal([]timing.VTime{7 * timing.Microsecond}))
		Expect(recorder.firedClock).To(Equal([]Time{Time(10 * timing.Microsecond)}))
	})

	It("should schedule relative to the local time", func() {
		clk.ScheduleAfter(timing.Microsecond, timer)

		Expect(engine.Run()).To(Succeed())
		Expect(recorder.firedAt).To(Equal([]timing.VTime{timing.Microsecond}))
	})

	It("should not drift over repeated scheduling", func() {
		for i := 0; i < 1000; i++ {
			clk.ScheduleAfter(333*timing.Picosecond, timer)
			Expect(engine.Run()).To(Succeed())
		}

		Expect(engine.CurrentTime()).To(Equal(333000 * timing.Picosecond))
	})

	It("should cancel pending timers", func() {
		clk.ScheduleAfter(timing.Microsecond, timer)

		Expect(clk.Cancel(timer)).To(BeTrue())
		Expect(timer.IsScheduled()).To(BeFalse())
		Expect(clk.Cancel(timer)).To(BeFalse())

		Expect(engine.Run()).To(Succeed())
		Expect(recorder.firedAt).To(BeEmpty())
	})

	It("should panic when a timer is scheduled twice", func() {
		clk.ScheduleAfter(timing.Microsecond, timer)

		Expect(func() { clk.ScheduleAfter(timing.Microsecond, timer) }).
			To(Panic())
	})

	It("should panic when a timer is scheduled in the past", func() {
		Expect(func() { clk.ScheduleAt(Time(timing.Microsecond), timer) }).
			To(Panic())
	})
})

var _ = Describe("Builder", func() {
	var engine *timing.SerialEngine

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
	})

	It("should reject offsets beyond the bound", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(engine).
				WithOffset(-2 * timing.Microsecond).
				WithMaxOffset(timing.Microsecond).
				Build("Clock")
		}).To(Panic())
	})

	It("should draw random offsets within the bound", func() {
		rng := rngstream.New("ClockTest")

		for i := 0; i < 20; i++ {
			c := MakeBuilder().
				WithEngine(engine).
				WithMaxOffset(timing.Microsecond).
				WithRandomOffset(rng).
				Build("Clock")

			Expect(c.Offset()).To(BeNumerically("<=", timing.Microsecond))
			Expect(c.Offset()).To(BeNumerically(">=", -timing.Microsecond))
		}
	})

	It("should require a max offset for random offsets", func() {
		Expect(func() {
			MakeBuilder().
				WithEngine(engine).
				WithRandomOffset(nil).
				Build("Clock")
		}).To(Panic())
	})
})
