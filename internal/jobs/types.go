package jobs

import "time"

const (
	// TaskTypeLoginRecorded はログイン成功を記録するタスクです。
	TaskTypeLoginRecorded = "auth:login-recorded"

	queueName = "events"
)

// LoginPayload はログイン記録タスクのペイロードです。
type LoginPayload struct {
	UserID string    `json:"userId"`
	At     time.Time `json:"at"`
}
