package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type RegeneratePageTask struct {
	id          string
	slug        string
	regenerator Regenerator
}

func NewRegeneratePageTask(slug string, regenerator Regenerator) *RegeneratePageTask {
	return &RegeneratePageTask{
		id:          uuid.NewString(),
		slug:        slug,
		regenerator: regenerator,
	}
}

func (t *RegeneratePageTask) GetID() string {
	return t.id
}

func (t *RegeneratePageTask) GetType() TaskType {
	return TaskTypeRegeneratePage
}

func (t *RegeneratePageTask) GetSlug() string {
	return t.slug
}

func (t *RegeneratePageTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.regenerator.Regenerate(ctx, t.slug); err != nil {
		return fmt.Errorf("failed to regenerate page: %w", err)
	}
	return nil
}

// Abandon releases the slug so a later request can queue it again.
func (t *RegeneratePageTask) Abandon() {
	t.regenerator.Abandon(t.slug)
}
