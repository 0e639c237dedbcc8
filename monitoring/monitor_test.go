package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/driver"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/sim"
	"github.com/sarchlab/wssim/tracing"
)

var _ = Describe("Monitor", func() {
	var (
		engine   *sim.SerialEngine
		resolver *fault.Resolver
		counts   *tracing.CountTracer
		m        *Monitor
		handler  http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		resolver = fault.MakeBuilder().
			WithNumFrames(4).
			WithMaxProcesses(2).
			WithNumPages(8).
			WithWorkingSetLimit(2).
			Build("Resolver")
		counts = tracing.NewCountTracer()
		resolver.AcceptHook(counts)

		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterResolver(resolver)
		m.RegisterCountTracer(counts)
		handler = m.Router()

		a, _ := resolver.AdmitProcess()
		b, _ := resolver.AdmitProcess()
		_, _ = resolver.RequestPage(a, 3)
		_, _ = resolver.RequestPage(a, 3)
		_, _ = resolver.RequestPage(b, 6)
	})

	It("should serve the resolver counters", func() {
		var stats fault.Stats
		decode(get("/api/stats"), &stats)

		Expect(stats.Requests).To(Equal(uint64(3)))
		Expect(stats.Hits).To(Equal(uint64(1)))
		Expect(stats.FreeFrames).To(Equal(2))
		Expect(engine.Paused()).To(BeFalse())
	})

	It("should serve the frame map", func() {
		var uses []fault.FrameUse
		decode(get("/api/frames"), &uses)

		Expect(uses).To(HaveLen(4))
		Expect(uses[1]).To(Equal(fault.FrameUse{
			Frame: 1, Occupied: true, PID: 1, Page: 6,
		}))
		Expect(uses[3].Occupied).To(BeFalse())
	})

	It("should list processes", func() {
		var pids []vm.PID
		decode(get("/api/processes"), &pids)

		Expect(pids).To(Equal([]vm.PID{0, 1}))
	})

	It("should describe a process", func() {
		var rsp processRsp
		decode(get("/api/process/0"), &rsp)

		Expect(rsp.Residency).To(Equal([]fault.Residency{
			{Page: 3, Frame: 0, Address: 0},
		}))
		Expect(rsp.Counts).NotTo(BeNil())
		Expect(rsp.Counts.Hits).To(Equal(uint64(1)))
	})

	It("should answer 404 for unknown processes", func() {
		Expect(get("/api/process/7").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/process/x").Code).To(Equal(http.StatusNotFound))
	})

	It("should pause and continue the engine", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(engine.Paused()).To(BeTrue())

		var now struct {
			Now    float64 `json:"now"`
			Paused bool    `json:"paused"`
		}
		decode(get("/api/now"), &now)
		Expect(now.Paused).To(BeTrue())

		get("/api/stats")
		Expect(engine.Paused()).To(BeTrue())

		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
		Expect(engine.Paused()).To(BeFalse())
	})

	It("should dump the resolver", func() {
		rec := get("/api/resolver")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should report the process resources", func() {
		var rsp resourceRsp
		decode(get("/api/resource"), &rsp)

		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the web page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should track iteration progress", func() {
		bar := m.CreateProgressBar("iterations", 2)
		hook := NewIterationProgressHook(bar)

		hook.Func(sim.HookCtx{Pos: driver.HookPosRequest})
		hook.Func(sim.HookCtx{Pos: driver.HookPosTickEnd, Item: 1})

		var bars []struct {
			Name     string `json:"name"`
			Total    uint64 `json:"total"`
			Finished uint64 `json:"finished"`
		}
		decode(get("/api/progress"), &bars)
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Finished).To(Equal(uint64(1)))
		Expect(bar.Done()).To(BeFalse())

		hook.Func(sim.HookCtx{Pos: driver.HookPosTickEnd, Item: 2})
		Expect(bar.Done()).To(BeTrue())

		m.CompleteProgressBar(bar)
		decode(get("/api/progress"), &bars)
		Expect(bars).To(BeEmpty())
	})

	It("should refuse privileged ports", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(BeZero())
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should refuse to open a browser before starting", func() {
		Expect(m.OpenInBrowser()).To(HaveOccurred())
	})
})
