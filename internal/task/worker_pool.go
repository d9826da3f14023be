package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hartex/hartex/internal/metrics"
	"github.com/hartex/hartex/internal/platform/logger"
)

// WorkerPool manages a pool of worker goroutines that process tasks
// from a task queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is passed to every task; cancelling it aborts in-flight work
	ctx context.Context

	// cancel is the function to call to cancel the context
	cancel context.CancelFunc

	// logger for structured logging
	logger *slog.Logger

	// errorHandler is called when a task execution fails
	// If nil, errors are only logged
	errorHandler func(task Task, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// NewWorkerPool creates a new worker pool with the specified configuration.
// Values stored in ctx (such as the logger) are visible to every task, but
// its cancellation is not; use Stop to abort work.
func NewWorkerPool(ctx context.Context, taskQueue TaskQueueReader, config WorkerPoolConfig, log *slog.Logger) *WorkerPool {
	log = logger.OrDefault(log).With("component", "worker_pool")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		log.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      log,
	}
}

// SetErrorHandler allows setting a custom error handler for task execution failures.
// It must be called before Start.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "workers", p.workerCount)
}

// Stop aborts in-flight tasks and waits for every worker to exit.
// Queued tasks that were not picked up are abandoned.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Drain waits for the workers to finish every queued task. The queue must be
// closed first or Drain only returns through ctx. When ctx ends first the
// pool is stopped and ctx.Err() returned.
func (p *WorkerPool) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool drained")
		return nil
	case <-ctx.Done():
		p.Stop()
		return ctx.Err()
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	log.Debug("starting worker")

	tasks := p.taskQueue.GetChannel()
	for {
		select {
		case <-p.ctx.Done():
			log.Debug("stopping worker")
			return

		case task, ok := <-tasks:
			if !ok {
				log.Debug("task channel closed, stopping worker")
				return
			}
			metrics.WorkerQueueDepth.Set(float64(len(tasks)))
			p.processTask(task, log)
		}
	}
}

func (p *WorkerPool) processTask(task Task, log *slog.Logger) {
	log = log.With("task_id", task.ID(), "task_type", task.Type())
	log.Debug("processing task")

	if err := p.execute(task); err != nil {
		log.Error("task execution failed", "error", err)
		if p.errorHandler != nil {
			p.errorHandler(task, err)
		}
		return
	}

	log.Debug("task completed")
}

// execute runs task, turning a panic into an error.
func (p *WorkerPool) execute(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Execute(p.ctx)
}
