package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"resumeStudio/internal/api/middleware"
	"resumeStudio/internal/database"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

type sectionStore interface {
	Create(ctx context.Context, s *database.Section) error
	ListByResume(ctx context.Context, resumeID string) ([]database.Section, error)
	NextOrder(ctx context.Context, resumeID string) (int, error)
}

type gormSectionStore struct {
	db *gorm.DB
}

func newGormSectionStore(db *gorm.DB) *gormSectionStore {
	return &gormSectionStore{db: db}
}

func (s *gormSectionStore) Create(ctx context.Context, rec *database.Section) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *gormSectionStore) ListByResume(ctx context.Context, resumeID string) ([]database.Section, error) {
	var out []database.Section
	err := s.db.WithContext(ctx).
		Where("resume_id = ?", resumeID).
		Order("sort_order asc").
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

func (s *gormSectionStore) NextOrder(ctx context.Context, resumeID string) (int, error) {
	var next int
	err := s.db.WithContext(ctx).
		Model(&database.Section{}).
		Where("resume_id = ?", resumeID).
		Select("COALESCE(MAX(sort_order) + 1, 0)").
		Scan(&next).Error
	return next, err
}

// SectionHandler 负责 Section 的持久化接口与字段注册表查询。
type SectionHandler struct {
	store  sectionStore
	layout layout.Descriptor
}

// NewSectionHandler 返回 SectionHandler；新 Section 的默认列由 templateID 对应的布局决定。
func NewSectionHandler(db *gorm.DB, templateID string) *SectionHandler {
	return &SectionHandler{store: newGormSectionStore(db), layout: layout.Get(templateID)}
}

type createSectionRequest struct {
	ResumeID    string            `json:"resumeId"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Column      int               `json:"column"`
	JobTitle    string            `json:"jobTitle"`
	Company     string            `json:"company"`
	Location    string            `json:"location"`
	StartDate   *string           `json:"startDate"`
	EndDate     *string           `json:"endDate"`
	Description string            `json:"description"`
	Data        map[string]string `json:"data"`
}

// CreateSection 持久化一个 Section，order 追加在该简历已有 Section 之后。
func (h *SectionHandler) CreateSection(c *gin.Context) {
	log := middleware.LoggerFromContext(c)

	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	req.ResumeID = strings.TrimSpace(req.ResumeID)
	if req.ResumeID == "" {
		BadRequest(c, "Resume ID is required")
		return
	}
	t := section.Type(strings.TrimSpace(req.Type))
	if t == "" {
		BadRequest(c, "Section type is required")
		return
	}
	if !t.Valid() {
		BadRequest(c, "Unknown section type")
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		BadRequest(c, "startDate must be an ISO date")
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		BadRequest(c, "endDate must be an ISO date")
		return
	}

	column := req.Column
	if column < 1 {
		column = layout.DefaultColumnFor(t, h.layout)
	}

	var data datatypes.JSON
	if len(req.Data) > 0 {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			BadRequest(c, "invalid section data")
			return
		}
		data = raw
	}

	ctx := c.Request.Context()
	order, err := h.store.NextOrder(ctx, req.ResumeID)
	if err != nil {
		log.Error("query next section order failed", slog.Any("error", err))
		Internal(c, "Error creating section")
		return
	}

	rec := database.Section{
		ID:          section.NewID(string(t)),
		ResumeID:    req.ResumeID,
		Type:        string(t),
		Title:       strings.TrimSpace(req.Title),
		Column:      column,
		Order:       order,
		JobTitle:    req.JobTitle,
		Company:     req.Company,
		Location:    req.Location,
		StartDate:   startDate,
		EndDate:     endDate,
		Description: req.Description,
		Data:        data,
	}
	if rec.Title == "" {
		rec.Title = section.DefaultTitle(t)
	}

	if err := h.store.Create(ctx, &rec); err != nil {
		log.Error("create section failed", slog.Any("error", err), slog.String("resume_id", req.ResumeID))
		Internal(c, "Error creating section")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// ListSections 返回某份简历的全部 Section，按 order 升序。
func (h *SectionHandler) ListSections(c *gin.Context) {
	resumeID := strings.TrimSpace(c.Query("resumeId"))
	if resumeID == "" {
		BadRequest(c, "Resume ID is required")
		return
	}

	sections, err := h.store.ListByResume(c.Request.Context(), resumeID)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list sections failed", slog.Any("error", err))
		Internal(c, "Error fetching sections")
		return
	}
	if sections == nil {
		sections = []database.Section{}
	}
	c.JSON(http.StatusOK, sections)
}

// GetFields 返回某类型的表单字段描述。
func (h *SectionHandler) GetFields(c *gin.Context) {
	def, ok := section.Lookup(section.Type(c.Param("type")))
	if !ok {
		NotFound(c, "unknown section type")
		return
	}
	c.JSON(http.StatusOK, def)
}

// ValidateFields 按注册表校验表单数据，始终返回 200 与错误列表。
func (h *SectionHandler) ValidateFields(c *gin.Context) {
	t := section.Type(c.Param("type"))
	if _, ok := section.Lookup(t); !ok {
		NotFound(c, "unknown section type")
		return
	}
	var data map[string]string
	if err := c.ShouldBindJSON(&data); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	errs := section.ValidateData(t, data)
	if errs == nil {
		errs = []section.FieldError{}
	}
	c.JSON(http.StatusOK, gin.H{"valid": len(errs) == 0, "errors": errs})
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
