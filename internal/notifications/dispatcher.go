package notifications

import (
	"context"
	"fmt"
	"sync"

	"tasteofegypt/pkg/metrics"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Task is one background side effect. Run must only touch data captured at
// submission time.
type Task struct {
	Kind    string
	OrderID string
	Run     func(ctx context.Context) error
}

// DispatcherConfig sizes the worker pool and its queue.
type DispatcherConfig struct {
	Workers   int
	QueueSize int
}

// Dispatcher runs tasks on a fixed pool of workers. Submit never blocks the
// caller and a task's outcome is only logged and counted.
type Dispatcher struct {
	cfg     DispatcherConfig
	logger  *zap.Logger
	metrics *metrics.Metrics

	queue  chan Task
	wg     conc.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher creates a dispatcher. metrics may be nil.
func NewDispatcher(cfg DispatcherConfig, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		queue:   make(chan Task, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. Calling it more than once is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Go(func() {
			for task := range d.queue {
				d.run(task)
			}
		})
	}
}

// Submit hands task to the workers. When the queue is full the task runs on
// its own goroutine instead of waiting for room.
func (d *Dispatcher) Submit(task Task) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping task",
			zap.String("kind", task.Kind),
			zap.String("order_id", task.OrderID))
		d.observe(task.Kind, "dropped")
		return
	}

	select {
	case d.queue <- task:
	default:
		d.wg.Go(func() { d.run(task) })
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		for task := range d.queue {
			d.run(task)
		}
	}
	d.wg.Wait()
	d.cancel()
}

func (d *Dispatcher) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification task panicked",
				zap.String("kind", task.Kind),
				zap.String("order_id", task.OrderID),
				zap.String("panic", fmt.Sprint(r)))
			d.observe(task.Kind, "error")
		}
	}()

	if err := task.Run(d.ctx); err != nil {
		d.logger.Error("notification task failed",
			zap.String("kind", task.Kind),
			zap.String("order_id", task.OrderID),
			zap.Error(err))
		d.observe(task.Kind, "error")
		return
	}
	d.observe(task.Kind, "ok")
}

func (d *Dispatcher) observe(kind, result string) {
	if d.metrics == nil {
		return
	}
	d.metrics.Dispatches.WithLabelValues(kind, result).Inc()
}
