package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeTemplateExport = "template:export"
)

// TemplateExportPayload 描述导出模板文档所需的最小信息。
type TemplateExportPayload struct {
	TemplateID    uint   `json:"template_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewTemplateExportTask 构造一个模板导出任务。同一模板在一分钟内只会入队一次。
func NewTemplateExportTask(id uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TemplateExportPayload{
		TemplateID:    id,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTemplateExport, payload, asynq.MaxRetry(3), asynq.Unique(time.Minute)), nil
}
