package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Section 表示某份简历中持久化的一个内容块。
// 经历类字段单独成列，其余类型的表单数据保存在 Data 中。
type Section struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	ResumeID    string         `gorm:"index;size:64" json:"resumeId"`
	Type        string         `gorm:"size:32" json:"type"`
	Title       string         `gorm:"size:255" json:"title"`
	Column      int            `gorm:"default:1" json:"column"`
	Order       int            `gorm:"column:sort_order" json:"order"`
	JobTitle    string         `gorm:"size:255" json:"jobTitle,omitempty"`
	Company     string         `gorm:"size:255" json:"company,omitempty"`
	Location    string         `gorm:"size:255" json:"location,omitempty"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Data        datatypes.JSON `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Template 表示保存的模板文档。
// Document 存储规范化后的 Template Document JSON；导出完成后 ExportObjectKey 指向 MinIO 对象。
type Template struct {
	gorm.Model
	Name            string         `gorm:"size:255"`
	Description     string         `gorm:"size:1024"`
	TemplateID      string         `gorm:"size:64"`
	Document        datatypes.JSON `gorm:"type:jsonb"`
	ExportObjectKey string         `gorm:"size:512"`
	Status          string         `gorm:"size:32"`
}

// 模板导出状态。
const (
	TemplateStatusDraft     = "draft"
	TemplateStatusExporting = "exporting"
	TemplateStatusExported  = "exported"
	TemplateStatusFailed    = "failed"
)

// AutoMigrate 创建或更新全部表结构。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Section{}, &Template{})
}
