package redundancy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pktflow/flow"
	"github.com/sarchlab/pktflow/packet"
	"github.com/sarchlab/pktflow/sim/hooking"
	"github.com/sarchlab/pktflow/sim/modeling"
	"github.com/sarchlab/pktflow/sim/timing"
)

func streamPacket(name, stream string) *packet.Packet {
	p := packet.New(name, 100*packet.Byte)
	if stream != "" {
		packet.AddTag(p, packet.StreamTag{Stream: stream})
	}

	return p
}

var _ = Describe("StreamDecoder", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		producer *producerComponent
		sinks    []*sinkComponent
		decoder  *StreamDecoder
		drops    []flow.DropDetail
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		producer = newProducerComponent(mockCtrl, "Producer")
		decoder = NewStreamDecoder("Decoder", engine, 2)
		sinks = []*sinkComponent{
			newSinkComponent(mockCtrl, "Sink0"),
			newSinkComponent(mockCtrl, "Sink1"),
		}

		modeling.Connect(producer.Out, decoder.In, nil)
		modeling.Connect(decoder.Out[0], sinks[0].In, nil)
		modeling.Connect(decoder.Out[1], sinks[1].In, nil)

		Expect(decoder.SetMappings([]StreamMapping{
			{Stream: "A", Gate: 0},
			{Stream: "B", Gate: 1},
		})).To(Succeed())

		drops = nil
		decoder.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == flow.HookPosPacketDropped {
				drops = append(drops, ctx.Detail.(flow.DropDetail))
			}
		}))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should name the outputs by index", func() {
		Expect(decoder.Out[1].Name()).To(Equal("Decoder.Out[1]"))
		Expect(decoder.Out[1].Index()).To(Equal(1))
	})

	It("should send a stream only to its output", func() {
		pkt := streamPacket("PktA", "A")

		sinks[0].EXPECT().CanAccept(pkt, sinks[0].In).Return(true)
		sinks[0].EXPECT().Push(pkt, sinks[0].In)

		flow.Push(producer.Out, pkt)

		Expect(decoder.NumDispatched()).To(Equal(1))
		Expect(drops).To(BeEmpty())
	})

	It("should drop unmapped streams", func() {
		pkt := streamPacket("PktC", "C")

		producer.EXPECT().HandlePushProcessed(pkt, producer.Out, false)

		flow.Push(producer.Out, pkt)

		Expect(decoder.NumDropped()).To(Equal(1))
		Expect(drops).To(HaveLen(1))
		Expect(drops[0].Reason).To(Equal(flow.NoDestination))
	})

	It("should drop packets without a stream", func() {
		pkt := streamPacket("Pkt", "")

		producer.EXPECT().HandlePushProcessed(pkt, producer.Out, false)

		Expect(decoder.CanAccept(pkt, decoder.In)).To(BeTrue())
		flow.Push(producer.Out, pkt)

		Expect(drops).To(HaveLen(1))
	})

	It("should ask the mapped output before accepting", func() {
		pkt := streamPacket("PktB", "B")

		sinks[1].EXPECT().CanAccept(pkt, sinks[1].In).Return(false)

		Expect(flow.CanPush(producer.Out, pkt)).To(BeFalse())
	})

	It("should accept if any output accepts", func() {
		sinks[0].EXPECT().CanAcceptAny(sinks[0].In).Return(false)
		sinks[1].EXPECT().CanAcceptAny(sinks[1].In).Return(true)

		Expect(decoder.CanAcceptAny(decoder.In)).To(BeTrue())
	})

	It("should pass notifications upstream", func() {
		pkt := streamPacket("PktA", "A")

		producer.EXPECT().HandleCanAcceptChanged(producer.Out)
		producer.EXPECT().HandlePushProcessed(pkt, producer.Out, true)

		flow.NotifyCanAcceptChanged(sinks[0].In)
		flow.NotifyPushProcessed(sinks[1].In, pkt, true)
	})

	It("should use new mappings for later packets", func() {
		Expect(decoder.SetMappings([]StreamMapping{
			{Stream: "A", Gate: 1},
		})).To(Succeed())

		pkt := streamPacket("PktA", "A")

		sinks[1].EXPECT().CanAccept(pkt, sinks[1].In).Return(true)
		sinks[1].EXPECT().Push(pkt, sinks[1].In)

		flow.Push(producer.Out, pkt)
	})

	It("should keep the old mappings when new ones are invalid", func() {
		err := decoder.SetMappings([]StreamMapping{
			{Stream: "A", Gate: 0},
			{Stream: "A", Gate: 2},
			{Stream: "", Gate: 1},
		})

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("more than once"))
		Expect(err.Error()).To(ContainSubstring("only 2 gates"))
		Expect(err.Error()).To(ContainSubstring("no stream"))

		out, found := decoder.OutputFor("B")
		Expect(found).To(BeTrue())
		Expect(out).To(BeIdenticalTo(decoder.Out[1]))
	})

	It("should forward registrations upstream", func() {
		flow.RegisterProtocol(sinks[1].In, "Ethernet")

		Expect(decoder.RegisteredProtocols(1)).To(ConsistOf("Ethernet"))
		Expect(decoder.RegisteredProtocols(0)).To(BeEmpty())
		Expect(producer.protocols).To(ConsistOf("Ethernet"))
	})

	It("should forward registrations only from the outputs", func() {
		Expect(decoder.RegistrationForwardingGate(decoder.Out[0])).
			To(BeIdenticalTo(decoder.In))
		Expect(decoder.RegistrationForwardingGate(decoder.In)).To(BeNil())
	})

	It("should refuse registrations on the input", func() {
		Expect(func() { decoder.HandleRegisterProtocol("Ethernet", decoder.In) }).
			To(PanicWith(BeAssignableToTypeOf(&flow.ContractViolation{})))
		Expect(producer.protocols).To(BeEmpty())
	})
})
