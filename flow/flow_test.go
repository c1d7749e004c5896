package flow

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/modeling"
)

var _ = Describe("Push", func() {
	var (
		mockCtrl *gomock.Controller
		producer *producerComponent
		sink     *sinkComponent
		pkt      *packet.Packet
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		producer = newProducerComponent(mockCtrl, "Producer")
		sink = newSinkComponent(mockCtrl, "Sink")
		pkt = packet.New("Data", 800)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should not find a sink on an unconnected gate", func() {
		s, in := FindSink(producer.Out)

		Expect(s).To(BeNil())
		Expect(in).To(BeNil())
		Expect(CanPush(producer.Out, pkt)).To(BeFalse())
		Expect(CanPushAny(producer.Out)).To(BeFalse())
		Expect(func() { Push(producer.Out, pkt) }).
			To(PanicWith(BeAssignableToTypeOf(&ContractViolation{})))
	})

	Context("when connected", func() {
		BeforeEach(func() {
			modeling.Connect(producer.Out, sink.In, nil)
		})

		It("should find both ends", func() {
			s, in := FindSink(producer.Out)
			Expect(s).To(BeIdenticalTo(sink))
			Expect(in).To(BeIdenticalTo(sink.In))

			p, out := FindProducer(sink.In)
			Expect(p).To(BeIdenticalTo(producer))
			Expect(out).To(BeIdenticalTo(producer.Out))
		})

		It("should push accepted packets", func() {
			sink.EXPECT().CanAccept(pkt, sink.In).Return(true)
			sink.EXPECT().Push(pkt, sink.In)

			Push(producer.Out, pkt)
		})

		It("should panic when the sink does not accept", func() {
			sink.EXPECT().CanAccept(pkt, sink.In).Return(false)

			Expect(func() { Push(producer.Out, pkt) }).
				To(PanicWith(BeAssignableToTypeOf(&ContractViolation{})))
		})

		It("should refuse to stream into a sink without streaming", func() {
			sink.EXPECT().SupportsStreaming(sink.In).Return(false)

			Expect(func() { PushStart(producer.Out, pkt, packet.Gbps) }).
				To(PanicWith(BeAssignableToTypeOf(&ContractViolation{})))
		})

		It("should stream into a streaming sink", func() {
			sink.EXPECT().SupportsStreaming(sink.In).Return(true).Times(3)
			sink.EXPECT().CanAccept(pkt, sink.In).Return(true)
			sink.EXPECT().PushStart(pkt, sink.In, packet.Gbps)
			sink.EXPECT().PushProgress(pkt, sink.In, packet.Gbps,
				packet.B(400), packet.B(0))
			sink.EXPECT().PushEnd(pkt, sink.In)

			PushStart(producer.Out, pkt, packet.Gbps)
			PushProgress(producer.Out, pkt, packet.Gbps, 400, 0)
			PushEnd(producer.Out, pkt)
		})

		It("should notify the producer", func() {
			var positions []*hooking.HookPos
			sink.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
				positions = append(positions, ctx.Pos)
			}))

			producer.EXPECT().HandleCanAcceptChanged(producer.Out)
			producer.EXPECT().HandlePushProcessed(pkt, producer.Out, true)

			NotifyCanAcceptChanged(sink.In)
			NotifyPushProcessed(sink.In, pkt, true)

			Expect(positions).To(Equal([]*hooking.HookPos{
				HookPosCanAcceptChanged,
			}))
		})

		It("should register protocols upstream", func() {
			RegisterProtocol(sink.In, "ethernet")

			Expect(producer.registered).To(Equal([]string{"ethernet"}))
		})
	})

	It("should report drops through the hook", func() {
		var ctxs []hooking.HookCtx
		sink.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			ctxs = append(ctxs, ctx)
		}))

		ReportDrop(sink, pkt, NoDestination, 42)

		Expect(ctxs).To(HaveLen(1))
		Expect(ctxs[0].Pos).To(BeIdenticalTo(HookPosPacketDropped))
		Expect(ctxs[0].Item).To(BeIdenticalTo(pkt))
		Expect(ctxs[0].Detail).To(Equal(DropDetail{Reason: NoDestination, Time: 42}))
		Expect(NoDestination.String()).To(Equal("NoDestination"))
	})
})

var _ = Describe("PassThroughBase", func() {
	var (
		mockCtrl *gomock.Controller
		producer *producerComponent
		middle   *forwarder
		sink     *sinkComponent
		pkt      *packet.Packet
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		producer = newProducerComponent(mockCtrl, "Producer")
		middle = newForwarder("Middle")
		sink = newSinkComponent(mockCtrl, "Sink")
		pkt = packet.New("Data", 800)

		modeling.Connect(producer.Out, middle.In, nil)
		modeling.Connect(middle.Out, sink.In, nil)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward queries downstream", func() {
		sink.EXPECT().CanAcceptAny(sink.In).Return(true)
		sink.EXPECT().CanAccept(pkt, sink.In).Return(false)
		sink.EXPECT().SupportsStreaming(sink.In).Return(true)

		Expect(middle.CanAcceptAny(middle.In)).To(BeTrue())
		Expect(middle.CanAccept(pkt, middle.In)).To(BeFalse())
		Expect(middle.SupportsStreaming(middle.In)).To(BeTrue())
	})

	It("should forward pushes", func() {
		sink.EXPECT().CanAccept(pkt, sink.In).Return(true).Times(2)
		sink.EXPECT().Push(pkt, sink.In)

		Push(producer.Out, pkt)
	})

	It("should forward notifications upstream", func() {
		producer.EXPECT().HandleCanAcceptChanged(producer.Out)
		producer.EXPECT().HandlePushProcessed(pkt, producer.Out, false)

		NotifyCanAcceptChanged(sink.In)
		NotifyPushProcessed(sink.In, pkt, false)
	})

	It("should forward protocol registrations", func() {
		RegisterProtocol(sink.In, "ipv4")

		Expect(producer.registered).To(Equal([]string{"ipv4"}))
	})
})
