package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// TemplateExportNotifyMessage 是导出结果的 WebSocket 消息（经 Redis Pub/Sub 转发给前端）。
// 字段名与前端解析保持一致。
type TemplateExportNotifyMessage struct {
	Status        string `json:"status"`
	TemplateID    uint   `json:"template_id"`
	CorrelationID string `json:"correlation_id"`
	ObjectKey     string `json:"object_key,omitempty"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

// NotifyChannel 返回某个模板的通知频道。
func NotifyChannel(templateID uint) string {
	return fmt.Sprintf("template_notify:%d", templateID)
}

// Publisher 是 Redis Publish 的最小接口。
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

func publishNotify(ctx context.Context, pub Publisher, notify TemplateExportNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(notify.TemplateID)
	if err := pub.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
