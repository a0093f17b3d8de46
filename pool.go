package cargolist

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// DocumentExporter is the export surface shared by Exporter and
// ExporterPool.
type DocumentExporter interface {
	Export(ctx context.Context, doc Document, f Format) (Artifact, error)
	PrintSurface(ctx context.Context, doc Document) (string, error)
	Close() error
}

// ExporterPool spreads exports over up to n exporters, each with its own
// browser. Exporters are created lazily on first acquire.
type ExporterPool struct {
	size    int
	newFn   func() (DocumentExporter, error)
	workers []DocumentExporter
	sem     chan DocumentExporter
	mu      sync.Mutex
	created int
	closed  bool
}

// NewExporterPool creates a pool with capacity for n exporters built by
// newFn.
func NewExporterPool(n int, newFn func() (DocumentExporter, error)) *ExporterPool {
	if n < 1 {
		n = 1
	}
	return &ExporterPool{
		size:    n,
		newFn:   newFn,
		workers: make([]DocumentExporter, 0, n),
		sem:     make(chan DocumentExporter, n),
	}
}

// acquire gets an exporter, creating one if capacity remains. Blocks while
// all are busy, or until ctx is done.
func (p *ExporterPool) acquire(ctx context.Context) (DocumentExporter, error) {
	select {
	case w, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return w, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		w, err := p.newFn()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.workers = append(p.workers, w)
		p.mu.Unlock()
		return w, nil
	}
	p.mu.Unlock()

	select {
	case w, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns an exporter to the pool. The channel holds every
// created exporter, so the send under the lock never blocks.
func (p *ExporterPool) release(w DocumentExporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- w
}

// Export runs one export on a pooled exporter.
func (p *ExporterPool) Export(ctx context.Context, doc Document, f Format) (Artifact, error) {
	w, err := p.acquire(ctx)
	if err != nil {
		return Artifact{}, err
	}
	defer p.release(w)
	return w.Export(ctx, doc, f)
}

// PrintSurface renders the print surface on a pooled exporter.
func (p *ExporterPool) PrintSurface(ctx context.Context, doc Document) (string, error) {
	w, err := p.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer p.release(w)
	return w.PrintSurface(ctx, doc)
}

// Close releases all browser resources.
// Returns an aggregated error if multiple exporters fail to close.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	workers := p.workers
	p.mu.Unlock()

	var errs []error
	for _, w := range workers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
