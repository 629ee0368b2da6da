package api

import (
	"cmp"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/metrics"
	"resumeStudio/internal/pagination"
	"resumeStudio/internal/section"
)

// ArrangementHandler 以无状态方式暴露布局描述、排列操作与分页估算。
// 客户端每次提交完整的 Arrangement，服务端返回新的 Arrangement。
type ArrangementHandler struct {
	defaultTemplate string
}

// NewArrangementHandler 返回 ArrangementHandler。
func NewArrangementHandler(defaultTemplate string) *ArrangementHandler {
	return &ArrangementHandler{defaultTemplate: defaultTemplate}
}

func (h *ArrangementHandler) descriptor(templateID string) layout.Descriptor {
	return layout.Get(cmp.Or(templateID, h.defaultTemplate))
}

// GetLayout 返回模板的布局描述与默认样式；未知模板返回单列布局。
func (h *ArrangementHandler) GetLayout(c *gin.Context) {
	id := layout.ParseTemplateID(c.Param("templateId"))
	d := layout.ForTemplate(id)
	c.JSON(http.StatusOK, gin.H{
		"layout":          d,
		"declaredColumns": layout.DeclaredColumns(d),
		"styles":          layout.DefaultStyles(id),
		"fontOptions":     layout.FontOptions,
	})
}

// Seed 返回编辑器初始排列。
func (h *ArrangementHandler) Seed(c *gin.Context) {
	templateID := cmp.Or(c.Query("templateId"), h.defaultTemplate)
	d := layout.Get(templateID)
	a := arrangement.Seed()
	c.JSON(http.StatusOK, gin.H{
		"templateId": templateID,
		"sections":   a,
		"styles":     layout.DefaultStyles(layout.ParseTemplateID(templateID)),
		"orphans":    emptyIfNil(arrangement.Orphans(a, d)),
	})
}

// 可执行的排列操作。
const (
	opAdd      = "add"
	opRemove   = "remove"
	opUpdate   = "update"
	opMove     = "move"
	opReorder  = "reorder"
	opDrop     = "drop"
	opRecolumn = "recolumn"
)

type arrangementOp struct {
	Kind   string            `json:"kind" binding:"required"`
	Type   string            `json:"type"`
	ID     string            `json:"id"`
	Column int               `json:"column"`
	OverID string            `json:"overId"`
	Data   map[string]string `json:"data"`
}

type applyRequest struct {
	TemplateID string                  `json:"templateId"`
	Sections   arrangement.Arrangement `json:"sections"`
	Op         arrangementOp           `json:"op"`
}

// Apply 执行一个排列操作。对缺失或锁定 Section 的操作是无操作，返回原排列。
func (h *ArrangementHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	d := h.descriptor(req.TemplateID)
	a := req.Sections
	if a == nil {
		a = arrangement.Arrangement{}
	}

	var out arrangement.Arrangement
	applied := req.Op.Kind
	switch req.Op.Kind {
	case opAdd:
		t := section.Type(req.Op.Type)
		if !t.Valid() {
			BadRequest(c, "Unknown section type")
			return
		}
		out = arrangement.AddSection(a, d, t, req.Op.Data)
	case opRemove:
		out = arrangement.RemoveSection(a, req.Op.ID)
	case opUpdate:
		out = arrangement.UpdateData(a, req.Op.ID, req.Op.Data)
	case opMove:
		out = arrangement.MoveToColumn(a, req.Op.ID, req.Op.Column)
	case opReorder:
		out = arrangement.Reorder(a, req.Op.ID, req.Op.OverID)
	case opDrop:
		var kind arrangement.DropKind
		out, kind = arrangement.ApplyDrop(a, d, arrangement.Drop{ActiveID: req.Op.ID, OverID: req.Op.OverID})
		applied = string(kind)
	case opRecolumn:
		out = arrangement.Recolumn(a, d)
	default:
		BadRequest(c, "unknown operation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sections": out,
		"applied":  applied,
		"changed":  !arrangement.Equal(a, out),
		"orphans":  emptyIfNil(arrangement.Orphans(out, d)),
	})
}

type checkRequest struct {
	TemplateID string                  `json:"templateId"`
	Sections   arrangement.Arrangement `json:"sections"`
}

// Check 返回排列的不变量问题与孤立 Section。
func (h *ArrangementHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	d := h.descriptor(req.TemplateID)
	problems := arrangement.Check(req.Sections, d)
	c.JSON(http.StatusOK, gin.H{
		"valid":    len(problems) == 0,
		"problems": emptyIfNil(problems),
		"orphans":  emptyIfNil(arrangement.Orphans(req.Sections, d)),
	})
}

// maxEstimatePages 限制单次估算返回的页码数量。
const maxEstimatePages = 500

type estimateRequest struct {
	HeightPx     float64  `json:"heightPx"`
	TemplateID   string   `json:"templateId"`
	PageHeightPx *float64 `json:"pageHeightPx"`
}

// EstimatePages 将测得的内容高度换算为页数；pageHeightPx 优先于模板的页高。
func (h *ArrangementHandler) EstimatePages(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	pageHeight := h.descriptor(req.TemplateID).PageHeightPx
	if req.PageHeightPx != nil {
		if *req.PageHeightPx <= 0 {
			BadRequest(c, "pageHeightPx must be positive")
			return
		}
		pageHeight = *req.PageHeightPx
	}

	pages := pagination.EstimatePages(req.HeightPx, pageHeight)
	if pages > maxEstimatePages {
		BadRequest(c, "heightPx is too large")
		return
	}
	metrics.ObservePages(pages)
	c.JSON(http.StatusOK, gin.H{
		"pages":        pages,
		"pageHeightPx": pageHeight,
		"pageNumbers":  pagination.PageNumbers(pages),
	})
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
