package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/fault"
)

var _ = Describe("CountTracer", func() {
	var (
		resolver *fault.Resolver
		tracer   *CountTracer
	)

	BeforeEach(func() {
		resolver = fault.MakeBuilder().
			WithNumFrames(2).
			WithMaxProcesses(3).
			WithNumPages(16).
			WithWorkingSetLimit(1).
			Build("Resolver")
		tracer = NewCountTracer()
		resolver.AcceptHook(tracer)
	})

	It("should count per process", func() {
		a, _ := resolver.AdmitProcess()
		b, _ := resolver.AdmitProcess()

		_, _ = resolver.RequestPage(a, 5)
		_, _ = resolver.RequestPage(a, 5)
		_, _ = resolver.RequestPage(b, 7)
		_, _ = resolver.RequestPage(a, 9)

		c, _ := resolver.AdmitProcess()
		_, _ = resolver.RequestPage(c, 1)

		Expect(tracer.Counts(a)).To(Equal(ProcessCounts{
			PID:            a,
			Requests:       3,
			Hits:           1,
			Faults:         2,
			IntraEvictions: 1,
			TimesEvicted:   1,
			PagesLost:      1,
		}))
		Expect(tracer.Counts(c).EvictionsCaused).To(Equal(uint64(1)))
		Expect(tracer.Counts(a).HitRatio()).To(BeNumerically("~", 1.0/3, 1e-9))
	})

	It("should list every admitted process in PID order", func() {
		for i := 0; i < 3; i++ {
			_, _ = resolver.AdmitProcess()
		}

		all := tracer.All()

		Expect(all).To(HaveLen(3))
		Expect(all[0].PID).To(Equal(vm.PID(0)))
		Expect(all[2].PID).To(Equal(vm.PID(2)))
		Expect(all[1].HitRatio()).To(BeZero())
	})

	It("should return empty counters for unknown processes", func() {
		Expect(tracer.Counts(9)).To(Equal(ProcessCounts{PID: 9}))
	})
})
