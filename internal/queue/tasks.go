package queue

import (
	"encoding/json"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSiteReprice 场地批量重定价任务
	TaskSiteReprice = constants.TaskSiteReprice
)

// SiteRepricePayload 场地重定价任务载荷
type SiteRepricePayload struct {
	TenantID uint `json:"tenant_id"`
	SiteID   uint `json:"site_id"`
}

// NewSiteRepriceTask 创建场地重定价任务
func NewSiteRepriceTask(payload SiteRepricePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSiteReprice, body), nil
}
