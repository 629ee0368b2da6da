package templatedoc

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

// Result 是一次导入的产物。只有无校验错误时才会生成，调用方整体替换现有状态。
type Result struct {
	Arrangement arrangement.Arrangement `json:"sections"`
	Styles      layout.Styles           `json:"styles"`
	Metadata    Metadata                `json:"metadata"`
	Legacy      bool                    `json:"legacy"`
}

var titleCaser = cases.Title(language.English)

// IsLegacy reports whether raw uses the older colorPalette/sectionArrangement shape.
func IsLegacy(raw map[string]any) bool {
	if l, ok := raw["layout"].(map[string]any); ok {
		if _, ok := l["sectionArrangement"]; ok {
			return true
		}
	}
	_, hasPalette := raw["colorPalette"]
	_, hasStyles := raw["styles"]
	return hasPalette && !hasStyles
}

// ImportLegacy 尽力而为地读取旧格式：颜色覆盖 base 中对应字段，
// sectionArrangement 的第 i 项成为第 i+1 列。非字符串或重复的 ID 被跳过。
func ImportLegacy(raw map[string]any, base layout.Styles) Result {
	res := Result{
		Arrangement: arrangement.Arrangement{},
		Styles:      applyStyles(base, raw),
		Legacy:      true,
	}
	if meta, ok := raw["metadata"].(map[string]any); ok {
		res.Metadata.Name, _ = meta["name"].(string)
		res.Metadata.Description, _ = meta["description"].(string)
		res.Metadata.Version, _ = meta["version"].(string)
	}

	l, _ := raw["layout"].(map[string]any)
	columns, _ := l["sectionArrangement"].([]any)

	seen := make(map[string]struct{})
	for idx, col := range columns {
		order := 0
		for _, item := range legacyColumnEntries(col) {
			id, ok := item.(string)
			if !ok || strings.TrimSpace(id) == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			res.Arrangement = append(res.Arrangement, section.Section{
				ID:     id,
				Title:  legacyTitle(id),
				Type:   section.TypeGeneric,
				Column: idx + 1,
				Order:  order,
				Page:   1,
				Width:  DefaultWidth,
				Height: DefaultHeight,
			})
			order++
		}
	}
	return res
}

func legacyColumnEntries(col any) []any {
	switch v := col.(type) {
	case []any:
		return v
	case map[string]any:
		entries, _ := v["sections"].([]any)
		return entries
	}
	return nil
}

func legacyTitle(id string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return titleCaser.String(words)
}

// applyStyles overrides base with any well-typed style fields present in raw.
func applyStyles(base layout.Styles, raw map[string]any) layout.Styles {
	out := base
	if palette, ok := raw["colorPalette"].(map[string]any); ok {
		setString(&out.PrimaryColor, palette["primaryColor"])
		setString(&out.SecondaryColor, palette["secondaryColor"])
	}
	styles, ok := raw["styles"].(map[string]any)
	if !ok {
		return out
	}
	setString(&out.PrimaryColor, styles["primaryColor"])
	setString(&out.SecondaryColor, styles["secondaryColor"])
	setString(&out.HeadingFont, styles["headingFont"])
	setString(&out.BodyFont, styles["bodyFont"])
	if family, ok := styles["fontFamily"].(map[string]any); ok {
		setString(&out.HeadingFont, family["heading"])
		setString(&out.BodyFont, family["body"])
	}
	if v, ok := styles["sectionSpacing"].(float64); ok {
		out.SectionSpacing = v
	}
	if v, ok := styles["contentPadding"].(float64); ok {
		out.ContentPadding = v
	}
	return out
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok && s != "" {
		*dst = s
	}
}

// Import parses untrusted bytes and returns either the imported state or the
// validation errors. Malformed JSON is reported as an error wrapping ErrMalformed.
// Nothing is returned for application unless validation passed.
func Import(data []byte, base layout.Styles) (Result, []ValidationError, error) {
	raw, err := Parse(data)
	if err != nil {
		return Result{}, nil, err
	}

	if obj, ok := raw.(map[string]any); ok && IsLegacy(obj) {
		return ImportLegacy(obj, base), nil, nil
	}

	if errs := Validate(raw); len(errs) > 0 {
		return Result{}, errs, nil
	}

	doc, err := Decode(raw)
	if err != nil {
		return Result{}, nil, err
	}
	return Result{
		Arrangement: Deserialize(doc),
		Styles:      applyStyles(base, raw.(map[string]any)),
		Metadata:    doc.Metadata,
	}, nil, nil
}
