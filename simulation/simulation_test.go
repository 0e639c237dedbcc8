package simulation

import (
	"bytes"
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/wssim/config"
	"github.com/sarchlab/wssim/datarecording"
	"github.com/sarchlab/wssim/tracing"
)

var _ = Describe("Simulation", func() {
	var cfg config.Config

	BeforeEach(func() {
		cfg = config.Default()
		cfg.NumFrames = 8
		cfg.MaxProcesses = 4
		cfg.NumPages = 16
		cfg.WorkingSetLimit = 3
		cfg.WaitSeconds = 0
		cfg.StoppingLimit = 20
		cfg.Seed = 42
	})

	It("should run for the stopping limit", func() {
		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())
		defer s.Terminate()

		Expect(s.Run()).To(Succeed())

		stats := s.GetResolver().Stats()
		Expect(s.GetDriver().Iterations()).To(Equal(20))
		Expect(stats.NumProcesses).To(Equal(4))
		// 1 + 2 + 3 + 4 requests in the first four iterations, 4 after.
		Expect(stats.Requests).To(Equal(uint64(10 + 16*4)))
		Expect(stats.GlobalEvictions).NotTo(BeZero())
		Expect(s.GetDataRecorder()).To(BeNil())
		Expect(s.GetMonitor()).To(BeNil())
	})

	It("should print to the console unless quiet", func() {
		cfg.StoppingLimit = 2
		cfg.TraceEvents = true

		buf := new(bytes.Buffer)
		s, err := MakeBuilder().WithConfig(cfg).WithConsole(buf).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Run()).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("process 0 created"))
		Expect(buf.String()).To(ContainSubstring("TickEvent -> Driver"))

		buf.Reset()
		cfg.Quiet = true
		s, err = MakeBuilder().WithConfig(cfg).WithConsole(buf).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Run()).To(Succeed())

		Expect(buf.Len()).To(BeZero())
	})

	It("should record requests", func() {
		cfg.StoppingLimit = 3
		cfg.Record = true
		cfg.RecordPath = filepath.Join(GinkgoT().TempDir(), "run")

		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())

		reader := datarecording.NewReader(cfg.RecordPath + ".sqlite3")
		defer reader.Close()
		reader.MapTable(tracing.RequestTable, tracing.RequestEntry{})

		_, count, err := reader.Query(context.Background(),
			tracing.RequestTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(1 + 2 + 3))
	})

	It("should serve a monitor", func() {
		cfg.StoppingLimit = 1
		cfg.Monitor = true

		s, err := MakeBuilder().WithConfig(cfg).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(s.GetMonitor()).NotTo(BeNil())

		Expect(s.Run()).To(Succeed())
		Expect(s.Terminate()).To(Succeed())
	})

	It("should refuse an invalid configuration", func() {
		cfg.NumFrames = 0

		Expect(func() { _, _ = MakeBuilder().WithConfig(cfg).Build() }).
			To(Panic())
	})
})
