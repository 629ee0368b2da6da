package templatedoc

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// SchemaJSON returns the JSON Schema describing the canonical document shape.
func SchemaJSON() string { return schemaJSON }

// SchemaErrors 用 JSON Schema 对文档做严格校验（仅接受规范形态，不接受旧格式）。
// 返回的 error 仅表示 schema 或文档无法加载。
func SchemaErrors(data []byte) ([]ValidationError, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("load template schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if result.Valid() {
		return nil, nil
	}

	out := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			if field == "(root)" || field == "" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
		if field == "" {
			field = "(root)"
		}
		out = append(out, ValidationError{Path: bracketIndexes(field), Message: desc.Description()})
	}
	return out, nil
}

// bracketIndexes rewrites sections.2.type as sections[2].type.
func bracketIndexes(field string) string {
	parts := strings.Split(field, ".")
	var b strings.Builder
	for i, p := range parts {
		if _, err := strconv.Atoi(p); err == nil && i > 0 {
			b.WriteString("[" + p + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}
