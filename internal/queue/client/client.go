package client

import (
	"context"
	"fmt"

	"github.com/yemektaxi/backend/internal/queue/task"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier schedules outbound notifications on the asynq queues.
type Notifier struct {
	client Enqueuer
}

func NewNotifier(client Enqueuer) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) EnqueueSignupEmail(ctx context.Context, email string, firstName string) error {
	t, err := task.NewSendSignupEmailTask(email, firstName)
	if err != nil {
		return fmt.Errorf("create send signup email task failed: %w", err)
	}

	if _, err := n.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue send signup email task failed: %w", err)
	}

	return nil
}
