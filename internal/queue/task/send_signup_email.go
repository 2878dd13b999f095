package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	SendSignupEmailTaskName  = "sendSignupEmailTask"
	SendSignupEmailQueueName = "sendSignupEmailQueue"
	sendSignupEmailMaxRetry  = 5
)

type SendSignupEmail struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

func NewSendSignupEmailTask(email string, firstName string) (*asynq.Task, error) {
	var data SendSignupEmail
	data.Email = email
	data.FirstName = firstName

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendSignupEmailTaskName,
		payload,
		asynq.MaxRetry(sendSignupEmailMaxRetry),
		asynq.Queue(SendSignupEmailQueueName),
	), nil
}
