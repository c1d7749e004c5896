package queueing

import (
	"github.com/hashicorp/go-multierror"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pktflow/sim/timing"
)

var _ = Describe("GateSchedule", func() {
	It("should accept a valid schedule", func() {
		s := GateSchedule{
			InitiallyOpen: true,
			Durations:     []timing.VTime{5, 3},
		}

		Expect(s.Validate()).To(Succeed())
		Expect(s.Period()).To(Equal(timing.VTime(8)))
	})

	DescribeTable("invalid schedules",
		func(s GateSchedule, numErrors int) {
			err := s.Validate()
			Expect(err).To(HaveOccurred())

			var merr *multierror.Error
			Expect(err).To(BeAssignableToTypeOf(merr))
			Expect(err.(*multierror.Error).Errors).To(HaveLen(numErrors))
		},
		Entry("empty", GateSchedule{}, 1),
		Entry("all zero", GateSchedule{Durations: []timing.VTime{0, 0}}, 1),
		Entry("odd", GateSchedule{Durations: []timing.VTime{1, 2, 3}}, 1),
		Entry("negative", GateSchedule{Durations: []timing.VTime{1, -2}}, 1),
		Entry("negative offset",
			GateSchedule{Durations: []timing.VTime{1, 2}, Offset: -1}, 1),
		Entry("odd and negative", GateSchedule{Durations: []timing.VTime{-1}}, 2),
	)

	It("should tell the state at any time", func() {
		s := GateSchedule{
			InitiallyOpen: true,
			Durations:     []timing.VTime{5, 3},
		}

		for t := timing.VTime(0); t < 40; t++ {
			phase := t % 8
			Expect(s.IsOpenAt(t)).To(Equal(phase < 5), "at %d", t)
		}
	})

	It("should apply the offset", func() {
		s := GateSchedule{
			InitiallyOpen: false,
			Durations:     []timing.VTime{2, 4},
			Offset:        3,
		}

		Expect(s.IsOpenAt(0)).To(BeTrue())
		Expect(s.IsOpenAt(2)).To(BeTrue())
		Expect(s.IsOpenAt(3)).To(BeFalse())
		Expect(s.IsOpenAt(5)).To(BeTrue())
	})

	It("should hold the initial state without a period", func() {
		empty := GateSchedule{InitiallyOpen: true}
		zeros := GateSchedule{Durations: []timing.VTime{0, 0}}

		Expect(empty.Validate()).To(HaveOccurred())
		Expect(empty.IsOpenAt(7)).To(BeTrue())
		Expect(zeros.Validate()).To(HaveOccurred())
		Expect(zeros.IsOpenAt(7)).To(BeFalse())
	})
})
