package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yemektaxi/backend/internal/queue/task"
	"github.com/yemektaxi/backend/internal/worker"

	"github.com/hibiken/asynq"
)

type sendSignupEmailProcessor struct {
	workers *worker.Workers
}

func NewSendSignupEmailProcessor(workers *worker.Workers) *sendSignupEmailProcessor {
	return &sendSignupEmailProcessor{
		workers: workers,
	}
}

func (p *sendSignupEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendSignupEmail
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		// a malformed payload will never succeed
		return fmt.Errorf("process send signup email task json unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	if err = p.workers.EmailSender.SendSignupEmail(ctx, data.Email, data.FirstName); err != nil {
		return fmt.Errorf("send signup email failed: %w", err)
	}

	return nil
}
