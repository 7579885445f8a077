package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-raster/engine/renderer"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsAfterInterval(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithClock(clock.now),
		WithInterval(time.Second),
	)

	for range 3 {
		p.Record(renderer.FrameStats{Draws: 2, Triangles: 100, Fragments: 50, Written: 40})
		clock.t = clock.t.Add(300 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Empty(t, buf.String())

	p.Record(renderer.FrameStats{Draws: 2, Triangles: 100, Fragments: 50, Written: 40})
	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.True(t, p.Tick())

	out := buf.String()
	assert.Contains(t, out, "fps=4")
	assert.Contains(t, out, "per_frame.draws=2")
	assert.Contains(t, out, "per_frame.triangles=100")
	assert.Contains(t, out, "per_frame.written=40")
}

func TestTickResetsCounters(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithClock(clock.now),
	)

	p.Record(renderer.FrameStats{Draws: 8})
	clock.t = clock.t.Add(time.Second)
	assert.True(t, p.Tick())

	buf.Reset()
	clock.t = clock.t.Add(time.Second)
	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), "per_frame.draws=0")
}
