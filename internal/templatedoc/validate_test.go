package templatedoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) any {
	t.Helper()
	v, err := Parse([]byte(raw))
	require.NoError(t, err)
	return v
}

func paths(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Path)
	}
	return out
}

const validDocument = `{
  "layout": {"columns": 2, "containers": [
    {"id": "c1", "title": "Side", "type": "container", "children": [
      {"id": "c1-a", "title": "Nested", "type": "section"}
    ]}
  ]},
  "sections": [{"id": "s1", "title": "Skills", "type": "section", "sectionType": "skills", "column": 1}],
  "styles": {"primaryColor": "#000", "secondaryColor": "#fff", "headingFont": "Inter", "bodyFont": "Inter",
    "sectionSpacing": 4, "contentPadding": 4},
  "metadata": {"name": "x", "description": "y", "created": "2024-05-01T12:00:00Z", "version": "1.0.0"}
}`

func TestValidate_AcceptsValidDocument(t *testing.T) {
	assert.Empty(t, Validate(mustParse(t, validDocument)))
}

func TestValidate_MissingColumnsReportsOneError(t *testing.T) {
	errs := Validate(mustParse(t, `{"layout": {}, "colorPalette": {"primaryColor": "#1", "secondaryColor": "#2"}}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "layout.columns", errs[0].Path)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "not an object",
			doc:  `[1, 2]`,
			want: []string{"(root)"},
		},
		{
			name: "missing layout and styles",
			doc:  `{}`,
			want: []string{"layout", "styles"},
		},
		{
			name: "columns not a number",
			doc:  `{"layout": {"columns": "two"}, "colorPalette": {"primaryColor": "#1", "secondaryColor": "#2"}}`,
			want: []string{"layout.columns"},
		},
		{
			name: "palette missing colors",
			doc:  `{"layout": {"columns": 1}, "colorPalette": {}}`,
			want: []string{"colorPalette.primaryColor", "colorPalette.secondaryColor"},
		},
		{
			name: "section without id and bad type",
			doc: `{"layout": {"columns": 1}, "colorPalette": {"primaryColor": "#1", "secondaryColor": "#2"},
				"sections": [{"title": "A", "type": "section"}, {"id": "b", "title": "B", "type": "widget"}]}`,
			want: []string{"sections[0].id", "sections[1].type"},
		},
		{
			name: "nested child missing title",
			doc: `{"layout": {"columns": 1, "containers": [{"id": "c", "title": "C", "type": "container",
				"children": [{"id": "k", "type": "section"}]}]}, "colorPalette": {"primaryColor": "#1", "secondaryColor": "#2"}}`,
			want: []string{"layout.containers[0].children[0].title"},
		},
		{
			name: "extraction styles",
			doc: `{"layout": {"columns": 1}, "styles": {"fontFamily": {"heading": "Inter"},
				"fontSize": {"name": "24px", "sectionTitle": "16px", "heading": "14px"}}}`,
			want: []string{"styles.fontFamily.body", "styles.fontSize.body"},
		},
		{
			name: "canonical styles incomplete",
			doc:  `{"layout": {"columns": 1}, "styles": {"primaryColor": "#1", "secondaryColor": "#2", "headingFont": "Inter", "bodyFont": "Inter", "sectionSpacing": "4"}}`,
			want: []string{"styles.sectionSpacing", "styles.contentPadding"},
		},
		{
			name: "bad created timestamp",
			doc:  `{"layout": {"columns": 1}, "colorPalette": {"primaryColor": "#1", "secondaryColor": "#2"}, "metadata": {"created": "yesterday"}}`,
			want: []string{"metadata.created"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(Validate(mustParse(t, tt.doc))))
		})
	}
}

func TestValidate_NeverPanics(t *testing.T) {
	inputs := []any{nil, 3.0, "text", true, map[string]any{"layout": "x", "styles": 1, "sections": "y", "metadata": 2}}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Validate(in) })
		assert.NotEmpty(t, Validate(in))
	}
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{{Path: "layout", Message: "Template layout is required"}}
	assert.Equal(t, "invalid template document: layout: Template layout is required", err.Error())
}
