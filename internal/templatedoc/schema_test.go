package templatedoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/layout"
)

func TestSchemaErrors_AcceptsSerializedDocument(t *testing.T) {
	fixedClock(t)
	doc := Serialize(arrangement.Seed(), layout.DefaultStyles(layout.ModernTeal), Metadata{})
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	errs, err := SchemaErrors(data)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestSchemaErrors_ReportsPaths(t *testing.T) {
	data := []byte(`{
		"layout": {"containers": []},
		"sections": [{"id": "a", "title": "A", "type": "widget"}],
		"styles": {"primaryColor": "#1", "secondaryColor": "#2", "headingFont": "Inter", "bodyFont": "Inter", "sectionSpacing": 4, "contentPadding": 4},
		"metadata": {"name": "n", "description": "d", "created": "2024-05-01T12:00:00Z", "version": "1.0.0"}
	}`)
	errs, err := SchemaErrors(data)
	require.NoError(t, err)

	got := paths(errs)
	assert.Contains(t, got, "layout.columns")
	assert.Contains(t, got, "sections[0].type")
}

func TestSchemaErrors_Malformed(t *testing.T) {
	_, err := SchemaErrors([]byte("{"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBracketIndexes(t *testing.T) {
	assert.Equal(t, "sections[2].children[0].id", bracketIndexes("sections.2.children.0.id"))
	assert.Equal(t, "(root)", bracketIndexes("(root)"))
}
