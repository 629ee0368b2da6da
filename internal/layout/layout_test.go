package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeStudio/internal/pagination"
	"resumeStudio/internal/section"
)

func TestGet_KnownTemplates(t *testing.T) {
	teal := Get("modern-teal")
	assert.Equal(t, 2, teal.Columns)
	require.Len(t, teal.Boundaries, 2)
	assert.Equal(t, pagination.CompactPageHeightPx, teal.PageHeightPx)

	navy := Get(" Modern-Navy ")
	assert.Equal(t, 1, navy.Columns)
	assert.Equal(t, pagination.A4HeightPx, navy.PageHeightPx)
}

func TestGet_UnknownTemplateFallsBackToSingleColumn(t *testing.T) {
	d := Get("classic-serif")
	assert.Equal(t, 1, d.Columns)
	assert.Empty(t, d.Boundaries)
	assert.Equal(t, []int{1}, DeclaredColumns(d))
	assert.Equal(t, 1, DefaultColumnFor(section.TypeExperience, d))
}

func TestGet_ReturnsIndependentCopies(t *testing.T) {
	d := Get("modern-teal")
	d.Boundaries[0].Sections[0] = section.TypeHeader

	again := Get("modern-teal")
	assert.Equal(t, section.TypeStrengths, again.Boundaries[0].Sections[0])
}

func TestDefaultColumnFor(t *testing.T) {
	teal := Get("modern-teal")
	tests := []struct {
		typ  section.Type
		want int
	}{
		{section.TypeSkills, 1},
		{section.TypeStrengths, 1},
		{section.TypeProjects, 2},
		{section.TypeHeader, 2},
		{section.TypeContainer, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultColumnFor(tt.typ, teal))
		})
	}
}

func TestDefaultColumnFor_FirstBoundaryWins(t *testing.T) {
	d := Descriptor{
		Columns: 2,
		Boundaries: []Boundary{
			{Column: 1, Sections: []section.Type{section.TypeSkills}},
			{Column: 2, Sections: []section.Type{section.TypeSkills}},
		},
	}
	assert.Equal(t, 1, DefaultColumnFor(section.TypeSkills, d))
}

func TestDeclaredColumns_WithoutBoundaries(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, DeclaredColumns(Descriptor{Columns: 3}))
	assert.True(t, HasColumn(Descriptor{Columns: 3}, 3))
	assert.False(t, HasColumn(Descriptor{Columns: 3}, 4))
}

func TestParseColumnTarget(t *testing.T) {
	n, ok := ParseColumnTarget("column-2")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = ParseColumnTarget("1")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = ParseColumnTarget("skills")
	assert.False(t, ok)
	_, ok = ParseColumnTarget("column-0")
	assert.False(t, ok)
}

func TestDescriptorNewSection(t *testing.T) {
	s, err := Get("modern-teal").NewSection(section.TypeSkills, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Column)
}

func TestDefaultStyles(t *testing.T) {
	assert.Equal(t, "#0F766E", DefaultStyles(ModernTeal).PrimaryColor)
	assert.Equal(t, "#0A2647", DefaultStyles(ModernNavy).PrimaryColor)
	assert.Equal(t, "#1D4ED8", DefaultStyles(Unknown).PrimaryColor)
	assert.Equal(t, "Inter", DefaultStyles(Unknown).HeadingFont)
}

func TestParseTemplateID(t *testing.T) {
	assert.Equal(t, ModernTeal, ParseTemplateID("modern-teal"))
	assert.Equal(t, Unknown, ParseTemplateID(""))
	assert.Equal(t, "unknown", Unknown.String())
}
