package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrQueueFull = errors.New("task queue is full")

const (
	DefaultQueueSize      = 300
	DefaultRetryBaseDelay = time.Second
	maxRetryDelay         = 30 * time.Second
	taskTimeout           = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Options struct {
	WorkerCount    int
	QueueSize      int
	MaxRetries     int
	RetryBaseDelay time.Duration
	// Prerender lists slugs regenerated once when the scheduler starts.
	Prerender []string
	Observer  Observer
}

type Scheduler struct {
	regenerator    Regenerator
	observer       Observer
	prerender      []string
	workerCount    int
	maxRetries     int
	retryBaseDelay time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	retries        sync.WaitGroup
	taskQueue      chan *queuedTask
}

func NewScheduler(regenerator Regenerator, opts Options) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.WorkerCount < 1 {
		opts.WorkerCount = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = DefaultRetryBaseDelay
	}

	return &Scheduler{
		regenerator:    regenerator,
		observer:       opts.Observer,
		prerender:      opts.Prerender,
		workerCount:    opts.WorkerCount,
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: opts.RetryBaseDelay,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan *queuedTask, opts.QueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.enqueueStartupTasks()
}

// Stop cancels running tasks and waits for the workers to exit. Queued
// tasks that have not started are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.retries.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	return s.enqueue(&queuedTask{task: task})
}

func (s *Scheduler) EnqueueRegeneration(slug string) error {
	return s.EnqueueTask(NewRegeneratePageTask(slug, s.regenerator))
}

func (s *Scheduler) QueueLength() int {
	return len(s.taskQueue)
}

func (s *Scheduler) enqueue(queued *queuedTask) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- queued:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (s *Scheduler) enqueueStartupTasks() {
	if len(s.prerender) == 0 {
		slog.Debug("No pages to prerender")
		return
	}

	slog.Debug("Prerendering pages", "count", len(s.prerender))

	for _, slug := range s.prerender {
		if err := s.EnqueueRegeneration(slug); err != nil {
			slog.Warn("Failed to enqueue RegeneratePageTask", "slug", slug, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case queued := <-s.taskQueue:
			s.executeTask(id, queued)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, queued *queuedTask) {
	task := queued.task
	startedAt := time.Now()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.observe("success")
		slog.Info("Task completed",
			"type", string(task.GetType()),
			"slug", task.GetSlug(),
			"duration", time.Since(startedAt),
			"retry_count", queued.retries)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "slug", task.GetSlug(), "retry_count", queued.retries, "error", err)

	if s.ctx.Err() != nil {
		task.Abandon()
		return
	}

	if queued.retries >= s.maxRetries {
		s.observe("failure")
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "slug", task.GetSlug(), "retry_count", queued.retries, "max_retries", s.maxRetries, "last_error", err)
		task.Abandon()
		return
	}

	s.observe("retry")
	queued.retries++
	retryDelay := s.retryDelay(queued.retries)

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "slug", task.GetSlug(), "retry_count", queued.retries, "max_retries", s.maxRetries, "delay", retryDelay.String())

	s.retries.Add(1)
	go func() {
		defer s.retries.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			task.Abandon()
		case <-timer.C:
			if retryErr := s.enqueue(queued); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", queued.retries, "error", retryErr)
				task.Abandon()
			}
		}
	}()
}

// retryDelay doubles from the base delay for each attempt, capped at 30s.
func (s *Scheduler) retryDelay(attempt int) time.Duration {
	delay := s.retryBaseDelay
	for i := 1; i < attempt && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, maxRetryDelay)
}

func (s *Scheduler) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveRegeneration(result)
	}
}
