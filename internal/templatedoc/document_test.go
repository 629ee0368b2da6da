package templatedoc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestSerialize_StampsMetadata(t *testing.T) {
	fixedClock(t)
	doc := Serialize(arrangement.Seed(), layout.DefaultStyles(layout.ModernTeal), Metadata{})

	assert.Equal(t, "Custom Template", doc.Metadata.Name)
	assert.Equal(t, "User-created template", doc.Metadata.Description)
	assert.Equal(t, "2024-05-01T12:00:00Z", doc.Metadata.Created)
	assert.Equal(t, Version, doc.Metadata.Version)
	assert.Equal(t, 2, doc.Layout.Columns)
	assert.Len(t, doc.Sections, 11)
	assert.Empty(t, doc.Layout.Containers)
	assert.Empty(t, doc.Validate())
}

func TestSerialize_SplitsContainers(t *testing.T) {
	a := arrangement.Arrangement{
		{ID: "c1", Title: "Sidebar", Type: section.TypeContainer, Column: 1, Children: []section.Section{
			{ID: "inner", Title: "Inner", Type: section.TypeGeneric, Column: 1},
		}},
		{ID: "s1", Title: "Plain", Type: section.TypeGeneric, Column: 1},
	}
	doc := Serialize(a, layout.DefaultStyles(layout.Unknown), Metadata{Name: "Mine"})

	require.Len(t, doc.Layout.Containers, 1)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, KindContainer, doc.Layout.Containers[0].Type)
	assert.Equal(t, "inner", doc.Layout.Containers[0].Children[0].ID)
	assert.Equal(t, KindSection, doc.Sections[0].Type)
	assert.Empty(t, doc.Sections[0].SectionType)
	assert.Equal(t, 1, doc.Sections[0].Order)
	assert.Equal(t, "Mine", doc.Metadata.Name)
}

func TestRoundTrip_KeepsChildrenOfPlainSections(t *testing.T) {
	a := arrangement.Arrangement{
		{ID: "group", Title: "Group", Type: section.TypeGeneric, Column: 1, Children: []section.Section{
			{ID: "first", Title: "First", Type: section.TypeGeneric, Column: 1},
			{ID: "second", Title: "Second", Type: section.TypeGeneric, Column: 1},
		}},
	}
	doc := Serialize(a, layout.DefaultStyles(layout.Unknown), Metadata{})
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Children, 2)

	out := Deserialize(doc)
	require.Len(t, out, 1)
	require.Len(t, out[0].Children, 2)
	assert.Equal(t, "second", out[0].Children[1].ID)
	assert.True(t, arrangement.Equal(a, out))
}

func TestRoundTrip(t *testing.T) {
	teal := layout.Get("modern-teal")
	a := arrangement.AddSection(arrangement.Seed(), teal, section.TypeProjects, map[string]string{"name": "Compiler"})
	a = arrangement.MoveToColumn(a, "skills", 2)
	a = arrangement.Reorder(a, "courses", "strengths")
	styles := layout.DefaultStyles(layout.ModernTeal)
	styles.SectionSpacing = 0

	doc := Serialize(a, styles, Metadata{})
	assert.True(t, arrangement.Equal(a, Deserialize(doc)))

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	res, errs, err := Import(data, layout.DefaultStyles(layout.Unknown))
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.False(t, res.Legacy)
	assert.Equal(t, styles, res.Styles)
	assert.True(t, arrangement.Equal(a, res.Arrangement))
}

func TestDeserialize_AppliesDefaults(t *testing.T) {
	doc := Document{
		Layout: Layout{Columns: 1, Containers: []Section{{Type: KindContainer, Name: "Left"}}},
		Sections: []Section{
			{ID: "late", Title: "Late", Type: KindSection, Order: 1},
			{ID: "early", Type: KindSection, Order: 0},
			{ID: "top", Title: "Top", Type: KindSection, SectionType: "header"},
		},
	}
	a := Deserialize(doc)
	require.Len(t, a, 4)

	container := a[0]
	assert.Equal(t, section.TypeContainer, container.Type)
	assert.Equal(t, "Left", container.Title)
	assert.Contains(t, container.ID, "container-")
	assert.Equal(t, DefaultWidth, container.Width)
	assert.Equal(t, DefaultHeight, container.Height)
	assert.Equal(t, 1, container.Column)
	assert.Equal(t, 1, container.Page)

	early, _ := a.Find("early")
	assert.Equal(t, "Section", early.Title)

	top, _ := a.Find("top")
	assert.Equal(t, section.TypeHeader, top.Type)
	assert.True(t, top.IsLocked)

	assert.Less(t, a.Index("early"), a.Index("late"))
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, _, err = Import([]byte("{not json"), layout.Styles{})
	assert.ErrorIs(t, err, ErrMalformed)
}
