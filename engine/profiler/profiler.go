package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
)

// Profiler tracks frame rate, memory statistics and pipeline counters.
// Outputs a summary through slog at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// pipeline counters accumulated since the last report
	frames renderer.FrameStats
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger the profiler reports to. Defaults to renderer.Logger().
func WithLogger(l *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = l
	}
}

// WithInterval sets how often stats are reported.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerOption: functional option to set the interval
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Record adds one frame's pipeline counters to the running totals reported by Tick.
//
// Parameters:
//   - stats: the counters returned by Renderer.Stats after EndFrame
func (p *Profiler) Record(stats renderer.FrameStats) {
	p.frames.Draws += stats.Draws
	p.frames.Culled += stats.Culled
	p.frames.Triangles += stats.Triangles
	p.frames.Fragments += stats.Fragments
	p.frames.Written += stats.Written
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed: FPS, heap usage,
// allocation rate, GC count/pause times, total memory and per-frame pipeline averages.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pauseUs := p.memStats.PauseNs[i%256] / 1000
			maxPauseUs = max(maxPauseUs, pauseUs)
		}
	}

	n := p.frameCount
	p.log().Info("profiler",
		slog.Float64("fps", fps),
		slog.Float64("heap_mb", allocMB),
		slog.Float64("alloc_rate_mb_s", allocRateMB),
		slog.Uint64("gc", uint64(gcCount)),
		slog.Uint64("gc_last_us", lastPauseUs),
		slog.Uint64("gc_max_us", maxPauseUs),
		slog.Float64("sys_mb", sysMB),
		slog.Group("per_frame",
			slog.Int("draws", p.frames.Draws/n),
			slog.Int("culled", p.frames.Culled/n),
			slog.Int("triangles", p.frames.Triangles/n),
			slog.Int("fragments", p.frames.Fragments/n),
			slog.Int("written", p.frames.Written/n),
		),
	)

	p.frameCount = 0
	p.frames = renderer.FrameStats{}
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

func (p *Profiler) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return renderer.Logger()
}
