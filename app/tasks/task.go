package tasks

import (
	"context"
)

type TaskType string

const (
	TaskTypeRegeneratePage TaskType = "regenerate_page"
)

const (
	DefaultMaxRetries = 3
)

// TaskInterface is a unit of background work. Abandon is called once when
// the scheduler stops retrying a failed task.
type TaskInterface interface {
	Execute(ctx context.Context) error
	Abandon()
	GetID() string
	GetType() TaskType
	GetSlug() string
}

// queuedTask carries a task through the queue along with its retry count.
type queuedTask struct {
	task    TaskInterface
	retries int
}
