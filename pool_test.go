package cargolist

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ DocumentExporter = (*Exporter)(nil)
	_ DocumentExporter = (*ExporterPool)(nil)
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// countingExporter tracks concurrent use and can block until released.
type countingExporter struct {
	active  *atomic.Int32
	peak    *atomic.Int32
	gate    chan struct{}
	closed  atomic.Bool
	exports atomic.Int32
}

func (c *countingExporter) Export(ctx context.Context, _ Document, f Format) (Artifact, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if c.gate != nil {
		select {
		case <-c.gate:
		case <-ctx.Done():
			return Artifact{}, ctx.Err()
		}
	}
	c.exports.Add(1)
	return Artifact{Name: string(f)}, nil
}

func (c *countingExporter) PrintSurface(context.Context, Document) (string, error) {
	return "<html></html>", nil
}

func (c *countingExporter) Close() error {
	c.closed.Store(true)
	return nil
}

type poolFixture struct {
	pool    *ExporterPool
	mu      sync.Mutex
	made    []*countingExporter
	active  atomic.Int32
	peak    atomic.Int32
	gate    chan struct{}
	failNew error
}

func newPoolFixture(n int, gated bool) *poolFixture {
	f := &poolFixture{}
	if gated {
		f.gate = make(chan struct{})
	}
	f.pool = NewExporterPool(n, func() (DocumentExporter, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failNew != nil {
			return nil, f.failNew
		}
		ex := &countingExporter{active: &f.active, peak: &f.peak, gate: f.gate}
		f.made = append(f.made, ex)
		return ex, nil
	})
	return f
}

func (f *poolFixture) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.made)
}

// ---------------------------------------------------------------------------
// TestExporterPool - Lazy creation, reuse and bounds
// ---------------------------------------------------------------------------

func TestExporterPool_LazyAndReused(t *testing.T) {
	t.Parallel()

	f := newPoolFixture(3, false)
	defer f.pool.Close()

	if f.created() != 0 {
		t.Fatalf("created = %d before first export", f.created())
	}
	for i := 0; i < 5; i++ {
		art, err := f.pool.Export(context.Background(), DefaultDocument(), FormatPDF)
		if err != nil {
			t.Fatalf("Export() error: %v", err)
		}
		if art.Name != "pdf" {
			t.Errorf("artifact = %q", art.Name)
		}
	}
	if f.created() != 1 {
		t.Errorf("sequential exports created %d exporters, want 1", f.created())
	}

	page, err := f.pool.PrintSurface(context.Background(), DefaultDocument())
	if err != nil || page == "" {
		t.Errorf("PrintSurface() = %q, %v", page, err)
	}
}

func TestExporterPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const size = 2
	f := newPoolFixture(size, true)
	defer f.pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.pool.Export(context.Background(), DefaultDocument(), FormatPNG); err != nil {
				t.Errorf("Export() error: %v", err)
			}
		}()
	}

	deadline := time.After(5 * time.Second)
	for f.active.Load() < size {
		select {
		case <-deadline:
			t.Fatal("exports did not start")
		case <-time.After(time.Millisecond):
		}
	}
	close(f.gate)
	wg.Wait()

	if got := f.peak.Load(); got > size {
		t.Errorf("peak concurrency = %d, want <= %d", got, size)
	}
	if got := f.created(); got != size {
		t.Errorf("created = %d, want %d", got, size)
	}
}

func TestExporterPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	f := newPoolFixture(1, true)
	defer f.pool.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.pool.Export(context.Background(), DefaultDocument(), FormatPDF)
	}()
	for f.active.Load() < 1 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := f.pool.Export(ctx, DefaultDocument(), FormatPDF); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("waiting Export() error = %v, want deadline exceeded", err)
	}

	close(f.gate)
	<-done
}

func TestExporterPool_FactoryError(t *testing.T) {
	t.Parallel()

	f := newPoolFixture(1, false)
	defer f.pool.Close()
	boom := errors.New("no chrome")
	f.failNew = boom

	if _, err := f.pool.Export(context.Background(), DefaultDocument(), FormatPDF); !errors.Is(err, boom) {
		t.Fatalf("Export() error = %v, want factory error", err)
	}

	// The failed slot is reusable.
	f.mu.Lock()
	f.failNew = nil
	f.mu.Unlock()
	if _, err := f.pool.Export(context.Background(), DefaultDocument(), FormatPDF); err != nil {
		t.Errorf("Export() after recovery error: %v", err)
	}
}

func TestExporterPool_Close(t *testing.T) {
	t.Parallel()

	f := newPoolFixture(2, false)
	if _, err := f.pool.Export(context.Background(), DefaultDocument(), FormatPDF); err != nil {
		t.Fatal(err)
	}
	if err := f.pool.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := f.pool.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	for _, ex := range f.made {
		if !ex.closed.Load() {
			t.Error("pooled exporter not closed")
		}
	}
	if _, err := f.pool.Export(context.Background(), DefaultDocument(), FormatPDF); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Export() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestNewExporterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	if got := NewExporterPool(0, nil).Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Explicit and GOMAXPROCS-based sizing
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit takes priority", 4, 4},
		{"explicit=1 for sequential", 1, 1},
		{"explicit can exceed max", 12, 12},
		{"zero uses auto calculation", 0, min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}
