package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yemektaxi/backend/internal/queue/task"
	"github.com/yemektaxi/backend/internal/worker"
)

type recordingSender struct {
	email, firstName string
	err              error
}

func (s *recordingSender) SendSignupEmail(_ context.Context, email string, firstName string) error {
	s.email, s.firstName = email, firstName
	return s.err
}

func TestSendSignupEmailProcessor(t *testing.T) {
	sender := &recordingSender{}
	p := NewSendSignupEmailProcessor(&worker.Workers{EmailSender: sender})

	tk, err := task.NewSendSignupEmailTask("ayse@example.com", "Ayşe")
	require.NoError(t, err)

	require.NoError(t, p.ProcessTask(context.Background(), tk))
	assert.Equal(t, "ayse@example.com", sender.email)
	assert.Equal(t, "Ayşe", sender.firstName)
}

func TestSendSignupEmailProcessor_Errors(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	p := NewSendSignupEmailProcessor(&worker.Workers{EmailSender: sender})

	tk, err := task.NewSendSignupEmailTask("ayse@example.com", "Ayşe")
	require.NoError(t, err)

	err = p.ProcessTask(context.Background(), tk)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	err = p.ProcessTask(context.Background(), asynq.NewTask(task.SendSignupEmailTaskName, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
