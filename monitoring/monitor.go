// Package monitoring turns a running simulation into an HTTP server that can
// pause it and show its memory state.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/wssim/mem/vm"
	"github.com/sarchlab/wssim/mem/vm/fault"
	"github.com/sarchlab/wssim/monitoring/web"
	"github.com/sarchlab/wssim/sim"
	"github.com/sarchlab/wssim/tracing"
)

// Inspectable is the view of the resolver the monitor serves.
type Inspectable interface {
	Stats() fault.Stats
	Processes() []vm.PID
	DescribeResidency(pid vm.PID) ([]fault.Residency, error)
	FrameMap() []fault.FrameUse
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     sim.Engine
	resolver   Inspectable
	counts     *tracing.CountTracer
	portNumber int

	// inspectLock keeps a reader from continuing the engine while another
	// reader still expects it paused.
	inspectLock sync.Mutex

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
	url    string
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		slog.Warn("monitor port not allowed, using a random port",
			"port", portNumber)

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterResolver registers the resolver whose state is served.
func (m *Monitor) RegisterResolver(r Inspectable) {
	m.resolver = r
}

// RegisterCountTracer registers the per-process counters to serve.
func (m *Monitor) RegisterCountTracer(t *tracing.CountTracer) {
	m.counts = t
}

// Router returns the handler of all the monitor endpoints.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/stats", m.stats)
	r.HandleFunc("/api/frames", m.frames)
	r.HandleFunc("/api/processes", m.listProcesses)
	r.HandleFunc("/api/process/{pid:[0-9]+}", m.processDetails)
	r.HandleFunc("/api/resolver", m.resolverDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// monitor.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", m.url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("monitor stopped", "error", err)
		}
	}()

	return m.url, nil
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the list of shown bars.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// OpenInBrowser opens the monitor page in the default browser.
func (m *Monitor) OpenInBrowser() error {
	if m.url == "" {
		return errors.New("monitor is not started")
	}

	return browser.OpenURL(m.url)
}

// StopServer shuts the server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

// inspect runs f with the engine paused, restoring the previous state after.
func (m *Monitor) inspect(f func()) {
	m.inspectLock.Lock()
	defer m.inspectLock.Unlock()

	if !m.engine.Paused() {
		m.engine.Pause()
		defer m.engine.Continue()
	}

	f()
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.inspectLock.Lock()
	defer m.inspectLock.Unlock()

	m.engine.Pause()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.inspectLock.Lock()
	defer m.inspectLock.Unlock()

	m.engine.Continue()
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f,\"paused\":%t}", now, m.engine.Paused())
}

func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	var stats fault.Stats

	m.inspect(func() { stats = m.resolver.Stats() })

	writeJSON(w, stats)
}

func (m *Monitor) frames(w http.ResponseWriter, _ *http.Request) {
	var uses []fault.FrameUse

	m.inspect(func() { uses = m.resolver.FrameMap() })

	writeJSON(w, uses)
}

type processRsp struct {
	PID       vm.PID                 `json:"pid"`
	Residency []fault.Residency      `json:"residency"`
	Counts    *tracing.ProcessCounts `json:"counts,omitempty"`
}

func (m *Monitor) listProcesses(w http.ResponseWriter, _ *http.Request) {
	var pids []vm.PID

	m.inspect(func() { pids = m.resolver.Processes() })

	writeJSON(w, pids)
}

func (m *Monitor) processDetails(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.ParseUint(mux.Vars(r)["pid"], 10, 32)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rsp := processRsp{PID: vm.PID(pid)}

	m.inspect(func() {
		rsp.Residency, err = m.resolver.DescribeResidency(rsp.PID)
	})

	if errors.Is(err, vm.ErrUnknownProcess) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if m.counts != nil {
		counts := m.counts.Counts(rsp.PID)
		rsp.Counts = &counts
	}

	writeJSON(w, rsp)
}

func (m *Monitor) resolverDetails(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.resolver)
	serializer.SetMaxDepth(2)

	buf := new(bytes.Buffer)

	m.inspect(func() {
		err := serializer.Serialize(buf)
		dieOnErr(err)
	})

	_, err := w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second
	if s := r.URL.Query().Get("seconds"); s != "" {
		d, err := time.ParseDuration(s + "s")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		duration = d
	}

	buf := bytes.NewBuffer(nil)
	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(duration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
