package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskReferralExpirySweep = "referrals.expiry_sweep"

type ReferralExpirySweepPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewReferralExpirySweepTask(payload ReferralExpirySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralExpirySweep, data), nil
}

func ParseReferralExpirySweepPayload(task *asynq.Task) (ReferralExpirySweepPayload, error) {
	var payload ReferralExpirySweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReferralExpirySweepPayload{}, err
	}
	return payload, nil
}
