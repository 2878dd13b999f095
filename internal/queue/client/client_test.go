package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/queue/task"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, t *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, t)
	return &asynq.TaskInfo{Queue: task.SendSignupEmailQueueName}, nil
}

func TestNotifier_EnqueueSignupEmail(t *testing.T) {
	enq := &fakeEnqueuer{}

	require.NoError(t, NewNotifier(enq).EnqueueSignupEmail(context.Background(), "ayse@example.com", "Ayşe"))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, task.SendSignupEmailTaskName, enq.tasks[0].Type())

	var payload task.SendSignupEmail
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, task.SendSignupEmail{Email: "ayse@example.com", FirstName: "Ayşe"}, payload)
}

func TestNotifier_EnqueueFailure(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis: connection refused")}

	err := NewNotifier(enq).EnqueueSignupEmail(context.Background(), "ayse@example.com", "Ayşe")
	assert.ErrorContains(t, err, "connection refused")
}
