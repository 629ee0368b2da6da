package api

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeStudio/internal/api/middleware"
	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/database"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/metrics"
	"resumeStudio/internal/storage"
	"resumeStudio/internal/tasks"
	"resumeStudio/internal/templatedoc"
)

var errTemplateNotFound = errors.New("template not found")

type templateStore interface {
	Create(ctx context.Context, tpl *database.Template) error
	Get(ctx context.Context, id uint) (database.Template, error)
	List(ctx context.Context, limit int) ([]database.Template, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

type gormTemplateStore struct {
	db *gorm.DB
}

func newGormTemplateStore(db *gorm.DB) *gormTemplateStore {
	return &gormTemplateStore{db: db}
}

func (s *gormTemplateStore) Create(ctx context.Context, tpl *database.Template) error {
	return s.db.WithContext(ctx).Create(tpl).Error
}

func (s *gormTemplateStore) Get(ctx context.Context, id uint) (database.Template, error) {
	var tpl database.Template
	if err := s.db.WithContext(ctx).First(&tpl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tpl, errTemplateNotFound
		}
		return tpl, err
	}
	return tpl, nil
}

func (s *gormTemplateStore) List(ctx context.Context, limit int) ([]database.Template, error) {
	var out []database.Template
	err := s.db.WithContext(ctx).
		Select("id", "name", "description", "template_id", "status", "export_object_key", "created_at", "updated_at").
		Order("updated_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *gormTemplateStore) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.db.WithContext(ctx).Model(&database.Template{}).Where("id = ?", id).Update("status", status).Error
}

func (s *gormTemplateStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&database.Template{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errTemplateNotFound
	}
	return nil
}

type exportQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type exportObjects interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration, filename string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// TemplateHandler 负责模板文档的校验、导入导出、保存与异步导出。
type TemplateHandler struct {
	store           templateStore
	queue           exportQueue
	objects         exportObjects
	defaultTemplate string
	linkTTL         time.Duration
}

// NewTemplateHandler 返回 TemplateHandler。
func NewTemplateHandler(db *gorm.DB, queue exportQueue, objects exportObjects, defaultTemplate string, linkTTL time.Duration) *TemplateHandler {
	return &TemplateHandler{
		store:           newGormTemplateStore(db),
		queue:           queue,
		objects:         objects,
		defaultTemplate: defaultTemplate,
		linkTTL:         linkTTL,
	}
}

func (h *TemplateHandler) baseStyles(c *gin.Context) layout.Styles {
	return layout.DefaultStyles(layout.ParseTemplateID(cmp.Or(c.Query("templateId"), h.defaultTemplate)))
}

// readDocument 读取原始请求体并解析为通用 JSON；失败时已写入响应。
func readDocument(c *gin.Context) ([]byte, any, bool) {
	body, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "failed to read request body")
		return nil, nil, false
	}
	raw, err := templatedoc.Parse(body)
	if err != nil {
		BadRequest(c, "Invalid JSON")
		return nil, nil, false
	}
	return body, raw, true
}

// POST /v1/templates/validate
// 校验模板文档；strict=true 时额外执行 JSON Schema 校验。
func (h *TemplateHandler) ValidateTemplate(c *gin.Context) {
	body, raw, ok := readDocument(c)
	if !ok {
		return
	}

	errs := templatedoc.Validate(raw)
	if c.Query("strict") == "true" {
		schemaErrs, err := templatedoc.SchemaErrors(body)
		if err != nil {
			middleware.LoggerFromContext(c).Error("schema validation failed", slog.Any("error", err))
			Internal(c, "failed to validate template")
			return
		}
		errs = append(errs, schemaErrs...)
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": emptyIfNil(errs)})
}

// POST /v1/templates/import
// 导入模板文档（含旧格式）。校验失败返回 422，不返回任何部分结果。
func (h *TemplateHandler) ImportTemplate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		BadRequest(c, "failed to read request body")
		return
	}

	res, errs, err := templatedoc.Import(body, h.baseStyles(c))
	switch {
	case errors.Is(err, templatedoc.ErrMalformed):
		metrics.ObserveImport("malformed", 0)
		BadRequest(c, "Invalid JSON")
		return
	case err != nil:
		middleware.LoggerFromContext(c).Error("import template failed", slog.Any("error", err))
		Internal(c, "failed to import template")
		return
	case len(errs) > 0:
		metrics.ObserveImport("invalid", len(errs))
		InvalidDocument(c, errs)
		return
	}

	if res.Legacy {
		metrics.ObserveImport("legacy", 0)
	} else {
		metrics.ObserveImport("ok", 0)
	}
	c.JSON(http.StatusOK, res)
}

type exportRequest struct {
	Sections arrangement.Arrangement `json:"sections"`
	Styles   layout.Styles           `json:"styles"`
	Metadata templatedoc.Metadata    `json:"metadata"`
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func exportFilename(name string) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(name), "-"), "-")
	return cmp.Or(slug, "template") + ".json"
}

// POST /v1/templates/export
// 将当前排列与样式序列化为模板文档并以附件形式返回。
func (h *TemplateHandler) ExportTemplate(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	doc := templatedoc.Serialize(req.Sections, req.Styles, req.Metadata)
	if errs := doc.Validate(); len(errs) > 0 {
		InvalidDocument(c, errs)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(doc.Metadata.Name)))
	c.JSON(http.StatusOK, doc)
}

type templateListItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TemplateID  string    `json:"templateId,omitempty"`
	Status      string    `json:"status"`
	Exported    bool      `json:"exported"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type templateDetailResponse struct {
	templateListItem
	Document datatypes.JSON `json:"document"`
}

func toListItem(tpl database.Template) templateListItem {
	return templateListItem{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		TemplateID:  tpl.TemplateID,
		Status:      tpl.Status,
		Exported:    tpl.ExportObjectKey != "",
		UpdatedAt:   tpl.UpdatedAt,
	}
}

// POST /v1/templates
// 保存一个通过校验的模板文档。
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	body, raw, ok := readDocument(c)
	if !ok {
		return
	}
	if errs := templatedoc.Validate(raw); len(errs) > 0 {
		InvalidDocument(c, errs)
		return
	}
	doc, err := templatedoc.Decode(raw)
	if err != nil {
		BadRequest(c, "Invalid JSON")
		return
	}
	model := database.Template{
		Name:        cmp.Or(doc.Metadata.Name, "Custom Template"),
		Description: doc.Metadata.Description,
		TemplateID:  c.Query("templateId"),
		Document:    datatypes.JSON(body),
		Status:      database.TemplateStatusDraft,
	}
	if err := h.store.Create(c.Request.Context(), &model); err != nil {
		middleware.LoggerFromContext(c).Error("create template failed", slog.Any("error", err))
		Internal(c, "failed to create template")
		return
	}
	c.JSON(http.StatusCreated, toListItem(model))
}

// GET /v1/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	limit = min(limit, 200)

	list, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list templates failed", slog.Any("error", err))
		Internal(c, "failed to list templates")
		return
	}
	items := make([]templateListItem, 0, len(list))
	for _, tpl := range list {
		items = append(items, toListItem(tpl))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *TemplateHandler) loadTemplate(c *gin.Context) (database.Template, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid template id")
		return database.Template{}, false
	}
	tpl, err := h.store.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, errTemplateNotFound) {
			NotFound(c, "template not found")
			return tpl, false
		}
		middleware.LoggerFromContext(c).Error("query template failed", slog.Any("error", err))
		Internal(c, "failed to load template")
		return tpl, false
	}
	return tpl, true
}

// GET /v1/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, templateDetailResponse{templateListItem: toListItem(tpl), Document: tpl.Document})
}

// DELETE /v1/templates/:id
// 删除模板记录及其全部导出文件。
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)

	if err := h.store.Delete(ctx, tpl.ID); err != nil {
		log.Error("delete template failed", slog.Any("error", err))
		Internal(c, "failed to delete template")
		return
	}
	if err := h.objects.DeletePrefix(ctx, storage.ExportPrefix(tpl.ID)); err != nil {
		log.Warn("delete template exports failed", slog.Any("error", err))
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/templates/:id/export
// 将导出任务放入队列，结果通过 WebSocket 推送。
func (h *TemplateHandler) EnqueueExport(c *gin.Context) {
	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	log := middleware.LoggerFromContext(c)
	correlationID := middleware.GetCorrelationID(c)

	task, err := tasks.NewTemplateExportTask(tpl.ID, correlationID)
	if err != nil {
		log.Error("build export task failed", slog.Any("error", err))
		Internal(c, "failed to enqueue export")
		return
	}
	if _, err := h.queue.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			Conflict(c, "export already in progress")
			return
		}
		log.Error("enqueue export task failed", slog.Any("error", err))
		Internal(c, "failed to enqueue export")
		return
	}
	if err := h.store.UpdateStatus(ctx, tpl.ID, database.TemplateStatusExporting); err != nil {
		log.Warn("update template status failed", slog.Any("error", err))
	}

	log.Info("template export enqueued", slog.Uint64("template_id", uint64(tpl.ID)))
	c.JSON(http.StatusAccepted, gin.H{
		"templateId":    tpl.ID,
		"status":        database.TemplateStatusExporting,
		"correlationId": correlationID,
	})
}

// GET /v1/templates/:id/download-link
func (h *TemplateHandler) GetDownloadLink(c *gin.Context) {
	tpl, ok := h.loadTemplate(c)
	if !ok {
		return
	}
	if tpl.ExportObjectKey == "" {
		NotFound(c, "template has not been exported")
		return
	}
	if !isValidExportObjectKey(tpl.ID, tpl.ExportObjectKey) {
		middleware.LoggerFromContext(c).Error("stored export key is invalid", slog.String("object_key", tpl.ExportObjectKey))
		Internal(c, "invalid export object")
		return
	}

	url, err := h.objects.GeneratePresignedURL(c.Request.Context(), tpl.ExportObjectKey, h.linkTTL, exportFilename(tpl.Name))
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate presigned url", slog.Any("error", err))
		Internal(c, "failed to generate url")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int(h.linkTTL.Seconds())})
}
