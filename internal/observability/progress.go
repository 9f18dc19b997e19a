package observability

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reporter starts progress trackers for units of work.
type Reporter interface {
	// Start begins tracking a task of total steps.
	Start(title string, total int) Progress
}

// Progress tracks one task. It never affects the work it observes.
type Progress interface {
	// Step records one completed unit of work.
	Step()
	// Done finishes the task. Calls after the first are no-ops.
	Done()
}

// NopReporter discards all progress.
type NopReporter struct{}

// Start implements Reporter.
func (NopReporter) Start(string, int) Progress { return nopProgress{} }

type nopProgress struct{}

func (nopProgress) Step() {}
func (nopProgress) Done() {}

// LogReporter reports progress through a zap logger: each step at debug level
// and completion at info level.
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter returns a Reporter writing to logger.
//
// Precondition: logger must be non-nil.
func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Start implements Reporter.
func (r *LogReporter) Start(title string, total int) Progress {
	r.logger.Debug("started", zap.String("task", title), zap.Int("total", total))
	return &logProgress{
		logger: r.logger.With(zap.String("task", title)),
		total:  total,
		start:  time.Now(),
	}
}

type logProgress struct {
	logger *zap.Logger
	total  int
	start  time.Time

	mu   sync.Mutex
	done int
	once sync.Once
}

func (p *logProgress) Step() {
	p.mu.Lock()
	p.done++
	n := p.done
	p.mu.Unlock()
	p.logger.Debug("progress", zap.Int("done", n), zap.Int("total", p.total))
}

func (p *logProgress) Done() {
	p.once.Do(func() {
		p.mu.Lock()
		n := p.done
		p.mu.Unlock()
		p.logger.Info("finished",
			zap.Int("done", n),
			zap.Int("total", p.total),
			zap.Duration("elapsed", time.Since(p.start)),
		)
	})
}
