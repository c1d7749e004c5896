package queueing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

var _ = Describe("PacketQueue", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		producer *producerComponent
		sink     *sinkComponent
		queue    *PacketQueue
	)

	build := func(dropTail bool) {
		queue = MakePacketQueueBuilder().
			WithEngine(engine).
			WithCapacity(2).
			WithDropTail(dropTail).
			Build("Queue")
		modeling.Connect(producer.Out, queue.In, nil)
		modeling.Connect(queue.Out, sink.In, nil)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		producer = newProducerComponent(mockCtrl, "Producer")
		sink = newSinkComponent(mockCtrl, "Sink")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward packets the sink accepts", func() {
		build(false)
		pkt := packet.New("Data", 100)

		producer.EXPECT().HandlePushProcessed(pkt, producer.Out, true)
		sink.EXPECT().CanAccept(pkt, sink.In).Return(true).Times(2)
		sink.EXPECT().Push(pkt, sink.In)

		flow.Push(producer.Out, pkt)

		Expect(queue.Buffer().Size()).To(Equal(0))
	})

	It("should hold packets until the sink accepts", func() {
		build(false)
		p1 := packet.New("P1", 100)
		p2 := packet.New("P2", 100)
		accepting := false

		producer.EXPECT().HandlePushProcessed(gomock.Any(), producer.Out, true).
			Times(2)
		sink.EXPECT().CanAccept(gomock.Any(), sink.In).
			DoAndReturn(func(_ *packet.Packet, _ *modeling.Gate) bool {
				return accepting
			}).AnyTimes()

		flow.Push(producer.Out, p1)
		flow.Push(producer.Out, p2)

		Expect(queue.Buffer().Size()).To(Equal(2))
		Expect(queue.CanAcceptAny(queue.In)).To(BeFalse())
		Expect(func() { flow.Push(producer.Out, packet.New("P3", 100)) }).
			To(PanicWith(BeAssignableToTypeOf(&flow.ContractViolation{})))

		accepting = true
		gomock.InOrder(
			sink.EXPECT().Push(p1, sink.In),
			sink.EXPECT().Push(p2, sink.In),
			producer.EXPECT().HandleCanAcceptChanged(producer.Out),
		)

		flow.NotifyCanAcceptChanged(sink.In)

		Expect(queue.Buffer().Size()).To(Equal(0))
	})

	It("should drop the tail when full", func() {
		build(true)

		producer.EXPECT().HandlePushProcessed(gomock.Any(), producer.Out, true).
			Times(2)
		producer.EXPECT().HandlePushProcessed(gomock.Any(), producer.Out, false)
		sink.EXPECT().CanAccept(gomock.Any(), sink.In).Return(false).AnyTimes()

		var drops []flow.DropDetail
		queue.AcceptHook(dropRecorder(&drops))

		for i := 0; i < 3; i++ {
			flow.Push(producer.Out, packet.New("Data", 100))
		}

		Expect(queue.NumDropped()).To(Equal(1))
		Expect(drops).To(HaveLen(1))
		Expect(drops[0].Reason).To(Equal(flow.QueueOverflow))
	})
})
