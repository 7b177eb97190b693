package tasks

import "context"

// TaskSchedulerInterface is what the application uses to run background
// page regeneration.
//
//	scheduler := NewScheduler(generator, Options{WorkerCount: 2})
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueRegeneration("episode-slug")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueRegeneration(slug string) error
	QueueLength() int
}

// Regenerator rebuilds the cached page for a slug. Abandon is called after
// the last failed attempt for that slug.
type Regenerator interface {
	Regenerate(ctx context.Context, slug string) error
	Abandon(slug string)
}

type Observer interface {
	ObserveRegeneration(result string)
}
