package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"resumeStudio/internal/database"
	"resumeStudio/internal/errcode"
	"resumeStudio/internal/storage"
	"resumeStudio/internal/tasks"
	"resumeStudio/internal/templatedoc"
)

// Uploader 是导出所需的对象存储能力。
type Uploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// TemplateExportHandler 负责消费模板导出任务。
type TemplateExportHandler struct {
	db        *gorm.DB
	storage   Uploader
	publisher Publisher
	logger    *slog.Logger
}

// NewTemplateExportHandler 创建任务处理器。
func NewTemplateExportHandler(db *gorm.DB, storage Uploader, publisher Publisher, logger *slog.Logger) *TemplateExportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateExportHandler{db: db, storage: storage, publisher: publisher, logger: logger}
}

// ProcessTask 实现 asynq.Handler：重新校验文档、上传到 MinIO、记录对象键并通知前端。
func (h *TemplateExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.TemplateExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("template_id", uint64(payload.TemplateID)),
	)
	log.Info("starting template export")

	var tpl database.Template
	if err := h.db.WithContext(ctx).First(&tpl, payload.TemplateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("template not found, skipping task")
			return nil
		}
		log.Error("query template failed", slog.Any("error", err))
		return err
	}

	defer func() {
		if retErr == nil {
			return
		}
		code := errcode.SystemError
		if errors.Is(retErr, asynq.SkipRetry) {
			code = errcode.InvalidDocument
		} else if !isFinalAsynqAttempt(ctx) {
			return
		}
		h.markFailed(ctx, log, &tpl)
		notify := TemplateExportNotifyMessage{
			Status:        "error",
			TemplateID:    tpl.ID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     code,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := publishNotify(ctx, h.publisher, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	body, err := exportBody(tpl.Document)
	if err != nil {
		log.Warn("stored template document is invalid", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	objectKey := fmt.Sprintf("%s%s.json", storage.ExportPrefix(tpl.ID), uuid.NewString())
	if _, err := h.storage.UploadFile(ctx, objectKey, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		log.Error("upload export to minio failed", slog.Any("error", err))
		return err
	}

	previous := tpl.ExportObjectKey
	update := map[string]any{
		"export_object_key": objectKey,
		"status":            database.TemplateStatusExported,
	}
	if err := h.db.WithContext(ctx).Model(&tpl).Updates(update).Error; err != nil {
		log.Error("update template failed", slog.Any("error", err))
		return err
	}
	if previous != "" && previous != objectKey {
		if err := h.storage.DeleteObject(ctx, previous); err != nil {
			log.Warn("delete previous export failed", slog.String("object_key", previous), slog.Any("error", err))
		}
	}

	notify := TemplateExportNotifyMessage{
		Status:        "completed",
		TemplateID:    tpl.ID,
		CorrelationID: payload.CorrelationID,
		ObjectKey:     objectKey,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.publisher, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("template export completed", slog.String("object_key", objectKey))
	return nil
}

// exportBody re-validates a stored document and renders the downloadable JSON.
func exportBody(stored []byte) ([]byte, error) {
	raw, err := templatedoc.Parse(stored)
	if err != nil {
		return nil, err
	}
	if errs := templatedoc.Validate(raw); len(errs) > 0 {
		return nil, templatedoc.ValidationErrors(errs)
	}
	return json.MarshalIndent(raw, "", "  ")
}

func (h *TemplateExportHandler) markFailed(ctx context.Context, log *slog.Logger, tpl *database.Template) {
	if err := h.db.WithContext(ctx).Model(tpl).Update("status", database.TemplateStatusFailed).Error; err != nil {
		log.Error("mark template export failed", slog.Any("error", err))
	}
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
