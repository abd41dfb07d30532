// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/murapadev/face-catcher/internal/platform/logx"
)

// Task representa una tarea a ejecutar en el worker pool.
type Task interface {
	// Execute ejecuta la tarea
	Execute(ctx context.Context) error

	// Name retorna el nombre de la tarea
	Name() string
}

// WorkerPool gestiona la ejecución concurrente de tareas.
// Las tareas se ejecutan en orden FIFO y los resultados se emiten en
// orden de finalización.
type WorkerPool struct {
	workers int
	logger  logx.Logger

	// Channels
	taskQueue chan Task
	results   chan TaskResult

	// Control
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// TaskResult representa el resultado de una tarea.
type TaskResult struct {
	Task     Task
	Error    error
	Duration time.Duration
}

// WorkerPoolConfig configura el worker pool.
type WorkerPoolConfig struct {
	Workers int
	Logger  logx.Logger
}

// NewWorkerPool crea un nuevo worker pool.
func NewWorkerPool(cfg WorkerPoolConfig) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &WorkerPool{
		workers:   cfg.Workers,
		logger:    cfg.Logger.With("component", "worker-pool"),
		taskQueue: make(chan Task, cfg.Workers*2), // Buffer 2x workers
		results:   make(chan TaskResult, cfg.Workers*2),
	}
}

// Start inicia el worker pool. El contexto gobierna la vida del pool:
// cancelarlo detiene los workers y cierra los streams de Submit en curso.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.ctx, wp.cancel = context.WithCancel(ctx)

	wp.logger.Info("starting worker pool", "workers", wp.workers)

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker es el goroutine que procesa tareas.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug("worker started", "worker_id", id)

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker stopped", "worker_id", id)
			return

		case task, ok := <-wp.taskQueue:
			if !ok {
				wp.logger.Debug("task queue closed, worker stopping", "worker_id", id)
				return
			}

			wp.executeTask(id, task)
		}
	}
}

// executeTask ejecuta una tarea individual.
func (wp *WorkerPool) executeTask(workerID int, task Task) {
	start := time.Now()

	wp.logger.Debug("executing task",
		"worker_id", workerID,
		"task", task.Name(),
	)

	err := task.Execute(wp.ctx)
	duration := time.Since(start)

	wp.logger.Debug("task completed",
		"worker_id", workerID,
		"task", task.Name(),
		"duration_ms", duration.Milliseconds(),
		"error", err != nil,
	)

	// Enviar resultado
	select {
	case wp.results <- TaskResult{
		Task:     task,
		Error:    err,
		Duration: duration,
	}:
	case <-wp.ctx.Done():
		// Pool stopped, discard result
	}
}

// Submit envía tareas al pool y retorna un canal por el que llegan los
// resultados según terminan. El canal se cierra tras emitir un resultado
// por tarea, o antes si el contexto del pool se cancela: el llamante no
// debe asumir que recibirá exactamente len(tasks) resultados.
func (wp *WorkerPool) Submit(tasks []Task) <-chan TaskResult {
	out := make(chan TaskResult, len(tasks))

	if len(tasks) == 0 {
		close(out)
		return out
	}

	wp.logger.Info("submitting tasks", "total", len(tasks))

	// Enviar tareas al queue
	go func() {
		for _, task := range tasks {
			select {
			case wp.taskQueue <- task:
			case <-wp.ctx.Done():
				return
			}
		}
	}()

	// Reenviar resultados al stream del llamante
	go func() {
		defer close(out)
		for i := 0; i < len(tasks); i++ {
			select {
			case result := <-wp.results:
				out <- result
			case <-wp.ctx.Done():
				wp.logger.Warn("pool stopped while waiting for results")
				return
			}
		}
	}()

	return out
}

// Stop detiene el worker pool. La cola no se cierra: el feeder de un
// Submit en curso podría seguir enviando; cancelar el contexto basta para
// que workers y feeders terminen.
func (wp *WorkerPool) Stop() {
	wp.logger.Info("stopping worker pool")

	// Cancel context to signal workers
	wp.cancel()

	// Wait for all workers to finish
	wp.wg.Wait()

	wp.logger.Info("worker pool stopped")
}

// Stats retorna estadísticas del worker pool.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		Workers:     wp.workers,
		QueueSize:   len(wp.taskQueue),
		ResultsSize: len(wp.results),
	}
}

// WorkerPoolStats contiene estadísticas del worker pool.
type WorkerPoolStats struct {
	Workers     int
	QueueSize   int
	ResultsSize int
}
