package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskPipelineAlertScan = "pipeline.alerts.scan"

type PipelineAlertScanPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewPipelineAlertScanTask(payload PipelineAlertScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPipelineAlertScan, data), nil
}

func ParsePipelineAlertScanPayload(task *asynq.Task) (PipelineAlertScanPayload, error) {
	var payload PipelineAlertScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PipelineAlertScanPayload{}, err
	}
	return payload, nil
}
