// Package templatedoc serializes arrangements and styles into the portable
// Template Document format and reads such documents back. Validation collects
// errors instead of failing; only documents without errors may be applied.
package templatedoc

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

const (
	// Version is stamped into exported documents that carry no version.
	Version = "1.0.0"

	KindContainer = "container"
	KindSection   = "section"

	DefaultWidth  = "100%"
	DefaultHeight = "auto"

	defaultName        = "Custom Template"
	defaultDescription = "User-created template"
)

// now is replaced in tests.
var now = time.Now

// Section 是文档中的一个区块。sectionType/column/order/data 等为可选扩展字段，
// 使简历编辑器中的语义 Section 也能无损往返。
type Section struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Name        string            `json:"name,omitempty"`
	Type        string            `json:"type"`
	Width       string            `json:"width,omitempty"`
	Height      string            `json:"height,omitempty"`
	Style       map[string]any    `json:"style,omitempty"`
	Children    []Section         `json:"children,omitempty"`
	SectionType string            `json:"sectionType,omitempty"`
	Column      int               `json:"column,omitempty"`
	Order       int               `json:"order"`
	Page        int               `json:"page,omitempty"`
	IsLocked    bool              `json:"isLocked,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
}

// Layout 描述容器与列数。
type Layout struct {
	Containers []Section `json:"containers"`
	Columns    int       `json:"columns"`
}

// Metadata 描述模板本身。
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author,omitempty"`
	Created     string `json:"created"`
	Updated     string `json:"updated,omitempty"`
	Version     string `json:"version"`
}

// Document 是模板 JSON 的规范形态。
type Document struct {
	Layout   Layout        `json:"layout"`
	Sections []Section     `json:"sections"`
	Styles   layout.Styles `json:"styles"`
	Metadata Metadata      `json:"metadata"`
}

// Serialize 将 Arrangement 与样式打包为文档：容器进入 layout.containers，其余进入 sections。
// created/version 未设置时自动填充。
func Serialize(a arrangement.Arrangement, styles layout.Styles, meta Metadata) Document {
	if meta.Name == "" {
		meta.Name = defaultName
	}
	if meta.Description == "" {
		meta.Description = defaultDescription
	}
	if meta.Created == "" {
		meta.Created = now().UTC().Format(time.RFC3339)
	}
	if meta.Version == "" {
		meta.Version = Version
	}

	doc := Document{
		Layout:   Layout{Containers: []Section{}, Columns: 1},
		Sections: []Section{},
		Styles:   styles,
		Metadata: meta,
	}

	positions := make(map[int]int)
	for _, s := range a {
		entry := toDocument(s)
		entry.Order = positions[s.Column]
		positions[s.Column]++
		doc.Layout.Columns = max(doc.Layout.Columns, s.Column)

		if entry.Type == KindContainer {
			doc.Layout.Containers = append(doc.Layout.Containers, entry)
		} else {
			doc.Sections = append(doc.Sections, entry)
		}
	}
	return doc
}

func toDocument(s section.Section) Section {
	entry := Section{
		ID:       s.ID,
		Title:    s.Title,
		Type:     KindSection,
		Width:    cmp.Or(s.Width, DefaultWidth),
		Height:   cmp.Or(s.Height, DefaultHeight),
		Column:   s.Column,
		Order:    s.Order,
		Page:     s.Page,
		IsLocked: s.IsLocked,
	}
	switch s.Type {
	case section.TypeContainer:
		entry.Type = KindContainer
	case section.TypeGeneric:
	default:
		entry.SectionType = string(s.Type)
	}
	if len(s.Data) > 0 {
		entry.Data = maps.Clone(s.Data)
	}
	for i, child := range s.Children {
		c := toDocument(child)
		c.Order = i
		entry.Children = append(entry.Children, c)
	}
	return entry
}

// Deserialize 依次读取 layout.containers 与 sections 构造 Arrangement，缺省字段使用默认值，
// 并按 order 恢复各列内部顺序。
func Deserialize(doc Document) arrangement.Arrangement {
	out := make(arrangement.Arrangement, 0, len(doc.Layout.Containers)+len(doc.Sections))
	for _, c := range doc.Layout.Containers {
		out = append(out, fromDocument(c, section.TypeContainer))
	}
	for _, s := range doc.Sections {
		out = append(out, fromDocument(s, section.TypeGeneric))
	}

	slices.SortStableFunc(out, func(x, y section.Section) int {
		return cmp.Or(cmp.Compare(x.Column, y.Column), cmp.Compare(x.Order, y.Order))
	})
	return out
}

func fromDocument(entry Section, fallback section.Type) section.Section {
	t := fallback
	switch {
	case entry.Type == KindContainer:
		t = section.TypeContainer
	case entry.Type == KindSection:
		t = section.TypeGeneric
	}
	if st := section.Type(entry.SectionType); t == section.TypeGeneric && st != "" && st.Valid() && st != section.TypeContainer {
		t = st
	}

	s := section.Section{
		ID:       entry.ID,
		Title:    cmp.Or(entry.Title, entry.Name, section.DefaultTitle(t)),
		Type:     t,
		Column:   max(entry.Column, 1),
		Page:     max(entry.Page, 1),
		Order:    entry.Order,
		IsLocked: entry.IsLocked || t == section.TypeHeader,
		Width:    cmp.Or(entry.Width, DefaultWidth),
		Height:   cmp.Or(entry.Height, DefaultHeight),
	}
	if s.ID == "" {
		s.ID = section.NewID(string(t))
	}
	if entry.Data != nil {
		s.Data = maps.Clone(entry.Data)
	}
	for _, child := range entry.Children {
		s.Children = append(s.Children, fromDocument(child, section.TypeGeneric))
	}
	return s
}

// ErrMalformed 表示文件内容不是合法 JSON。
var ErrMalformed = errors.New("malformed template json")

// Parse decodes untrusted bytes into a generic JSON value.
func Parse(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return raw, nil
}

// Decode converts a generic JSON value into a Document.
func Decode(raw any) (Document, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Document{}, fmt.Errorf("re-encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

// Generic converts a Document into the generic JSON form consumed by Validate.
func (d Document) Generic() (any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return Parse(data)
}

// Validate runs Validate on the document's JSON form.
func (d Document) Validate() []ValidationError {
	raw, err := d.Generic()
	if err != nil {
		return []ValidationError{{Path: "(root)", Message: err.Error()}}
	}
	return Validate(raw)
}
