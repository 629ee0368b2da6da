package templatedoc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"resumeStudio/internal/section"
)

// ValidationError 是一条结构校验错误，Path 使用 a.b[0].c 形式。
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrors 汇总校验错误，便于 CLI 与 worker 以 error 形式返回。
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "invalid template document: " + strings.Join(parts, "; ")
}

var requiredStyleStrings = []string{"primaryColor", "secondaryColor", "headingFont", "bodyFont"}
var requiredStyleNumbers = []string{"sectionSpacing", "contentPadding"}

var fontSizeFields = []string{"name", "sectionTitle", "heading", "body"}

type collector struct {
	errs []ValidationError
}

func (c *collector) add(path, message string) {
	c.errs = append(c.errs, ValidationError{Path: path, Message: message})
}

// Validate checks a generic JSON value against the document structure and
// returns every error found. It never panics on malformed input; an empty
// result means the document may be applied.
func Validate(raw any) []ValidationError {
	c := &collector{}

	doc, ok := raw.(map[string]any)
	if !ok {
		c.add("(root)", "Template document must be a JSON object")
		return c.errs
	}

	validateLayout(c, doc["layout"])
	validateStyles(c, doc)
	validateSectionList(c, "sections", doc["sections"])
	validateMetadata(c, doc["metadata"])

	return c.errs
}

func validateLayout(c *collector, raw any) {
	l, ok := raw.(map[string]any)
	if !ok {
		c.add("layout", "Template layout is required")
		return
	}

	switch cols := l["columns"].(type) {
	case float64:
		if cols < 1 || cols != math.Trunc(cols) {
			c.add("layout.columns", "Layout columns must be a positive integer")
		}
	default:
		c.add("layout.columns", "Layout must specify the number of columns")
	}

	if containers, present := l["containers"]; present {
		validateSectionList(c, "layout.containers", containers)
	}
}

func validateStyles(c *collector, doc map[string]any) {
	rawStyles, hasStyles := doc["styles"]
	rawPalette, hasPalette := doc["colorPalette"]
	if !hasStyles && !hasPalette {
		c.add("styles", "Template styles or colorPalette is required")
		return
	}

	if hasPalette {
		palette, ok := rawPalette.(map[string]any)
		if !ok {
			c.add("colorPalette", "Color palette must be an object")
		} else {
			requireString(c, palette, "colorPalette", "primaryColor", "Primary color is required")
			requireString(c, palette, "colorPalette", "secondaryColor", "Secondary color is required")
		}
	}

	if !hasStyles {
		return
	}
	styles, ok := rawStyles.(map[string]any)
	if !ok {
		c.add("styles", "Styles must be an object")
		return
	}

	_, hasFamily := styles["fontFamily"]
	_, hasSize := styles["fontSize"]
	if !hasFamily && !hasSize {
		for _, f := range requiredStyleStrings {
			requireString(c, styles, "styles", f, fmt.Sprintf("%s is required", f))
		}
		for _, f := range requiredStyleNumbers {
			if _, ok := styles[f].(float64); !ok {
				c.add("styles."+f, fmt.Sprintf("%s must be a number", f))
			}
		}
		return
	}

	if hasFamily {
		family, ok := styles["fontFamily"].(map[string]any)
		if !ok {
			c.add("styles.fontFamily", "Font family must be an object")
		} else {
			requireString(c, family, "styles.fontFamily", "heading", "Heading font family is required")
			requireString(c, family, "styles.fontFamily", "body", "Body font family is required")
		}
	}
	if hasSize {
		size, ok := styles["fontSize"].(map[string]any)
		if !ok {
			c.add("styles.fontSize", "Font size must be an object")
		} else {
			for _, f := range fontSizeFields {
				requireString(c, size, "styles.fontSize", f, fmt.Sprintf("%s font size is required", f))
			}
		}
	}
}

func validateSectionList(c *collector, path string, raw any) {
	if raw == nil {
		return
	}
	list, ok := raw.([]any)
	if !ok {
		c.add(path, "Must be an array")
		return
	}
	for i, item := range list {
		validateSection(c, fmt.Sprintf("%s[%d]", path, i), item)
	}
}

func validateSection(c *collector, path string, raw any) {
	s, ok := raw.(map[string]any)
	if !ok {
		c.add(path, "Section must be an object")
		return
	}

	requireString(c, s, path, "id", "Section ID is required")
	requireString(c, s, path, "title", "Section title is required")

	kind, present := s["type"]
	switch {
	case !present || kind == nil || kind == "":
		c.add(path+".type", "Section type is required")
	case kind != KindContainer && kind != KindSection:
		c.add(path+".type", "Section type must be either 'container' or 'section'")
	}

	if raw, present := s["sectionType"]; present {
		st, ok := raw.(string)
		if !ok || !section.Type(st).Valid() || section.Type(st) == section.TypeContainer {
			c.add(path+".sectionType", fmt.Sprintf("Unknown section type %v", raw))
		}
	}
	for _, f := range []string{"column", "page"} {
		if v, present := s[f]; present {
			if n, ok := v.(float64); !ok || n < 1 || n != math.Trunc(n) {
				c.add(path+"."+f, fmt.Sprintf("%s must be a positive integer", f))
			}
		}
	}
	if v, present := s["data"]; present {
		data, ok := v.(map[string]any)
		if !ok {
			c.add(path+".data", "Section data must be an object")
		} else {
			for k, val := range data {
				if _, ok := val.(string); !ok {
					c.add(path+".data."+k, "Section data values must be strings")
				}
			}
		}
	}

	if kind == KindContainer {
		validateSectionList(c, path+".children", s["children"])
	}
}

func validateMetadata(c *collector, raw any) {
	if raw == nil {
		return
	}
	meta, ok := raw.(map[string]any)
	if !ok {
		c.add("metadata", "Metadata must be an object")
		return
	}
	for _, f := range []string{"created", "updated"} {
		v, present := meta[f]
		if !present {
			continue
		}
		s, ok := v.(string)
		if !ok {
			c.add("metadata."+f, "Must be an ISO-8601 timestamp")
			continue
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			c.add("metadata."+f, "Must be an ISO-8601 timestamp")
		}
	}
}

func requireString(c *collector, obj map[string]any, path, field, message string) {
	if s, ok := obj[field].(string); !ok || strings.TrimSpace(s) == "" {
		c.add(path+"."+field, message)
	}
}
