package arrangement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

func ids(sections []section.Section) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.ID)
	}
	return out
}

func TestSeed(t *testing.T) {
	a := Seed()
	require.Len(t, a, 11)

	header, ok := a.Header()
	require.True(t, ok)
	assert.Equal(t, 2, header.Column)
	assert.Empty(t, Check(a, layout.Get("modern-teal")))
}

func TestAddSection_ProjectsOnTeal(t *testing.T) {
	teal := layout.Get("modern-teal")
	before := Seed()

	after := AddSection(before, teal, section.TypeProjects, nil)
	require.Len(t, after, 12)
	assert.Len(t, before, 11)

	added := after[11]
	assert.Equal(t, section.TypeProjects, added.Type)
	assert.Equal(t, 2, added.Column)
	assert.NotEqual(t, "projects", added.ID)

	header, _ := after.Header()
	assert.Equal(t, "header", header.ID)
	assert.True(t, header.IsLocked)
	assert.Equal(t, "header", Rendered(after)[0].ID)

	for i := range before {
		assert.True(t, before[i].Equal(after[i]))
	}
}

func TestAddSection_NoOps(t *testing.T) {
	teal := layout.Get("modern-teal")
	a := Seed()
	assert.Len(t, AddSection(a, teal, section.TypeHeader, nil), 11)
	assert.Len(t, AddSection(a, teal, section.Type("portfolio"), nil), 11)
}

func TestMoveToColumn_OnlyChangesColumn(t *testing.T) {
	a := Seed()
	out := MoveToColumn(a, "skills", 2)

	for i := range a {
		if a[i].ID == "skills" {
			assert.Equal(t, 1, a[i].Column, "input must not be mutated")
			assert.Equal(t, 2, out[i].Column)
			continue
		}
		assert.Equal(t, a[i], out[i])
	}
}

func TestMoveToColumn_NoOps(t *testing.T) {
	a := Seed()
	tests := []struct {
		name   string
		id     string
		column int
	}{
		{"locked header", "header", 1},
		{"missing id", "portfolio", 1},
		{"invalid column", "skills", 0},
		{"same column", "skills", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Equal(a, MoveToColumn(a, tt.id, tt.column)))
		})
	}
}

func TestReorder(t *testing.T) {
	a := Arrangement{
		{ID: "a", Type: section.TypeSkills, Column: 1},
		{ID: "b", Type: section.TypeSkills, Column: 1},
		{ID: "c", Type: section.TypeSkills, Column: 1},
		{ID: "x", Type: section.TypeSummary, Column: 2},
	}

	out := Reorder(a, "c", "a")
	assert.Equal(t, []string{"c", "a", "b", "x"}, ids(out))
	assert.Equal(t, []string{"a", "b", "c", "x"}, ids(a))

	out = Reorder(a, "a", "c")
	assert.Equal(t, []string{"b", "c", "a", "x"}, ids(out))

	out = Reorder(a, "a", "b")
	assert.Equal(t, []string{"b", "a", "c", "x"}, ids(out))

	assert.Equal(t, ids(a), ids(Reorder(a, "a", "a")))
	assert.Equal(t, ids(a), ids(Reorder(a, "a", "missing")))
}

func TestReorder_LockedSectionStays(t *testing.T) {
	a := Seed()
	out := Reorder(a, "header", "courses")
	assert.Equal(t, ids(a), ids(out))
}

func TestRemoveSection(t *testing.T) {
	a := Seed()
	out := RemoveSection(a, "skills")
	assert.Len(t, out, 10)
	assert.Equal(t, -1, out.Index("skills"))

	assert.Len(t, RemoveSection(a, "header"), 11)
	assert.Len(t, RemoveSection(a, "missing"), 11)
}

func TestUpdateData(t *testing.T) {
	a := Seed()
	out := UpdateData(a, "header", map[string]string{"fullName": "Ada Lovelace"})
	h, _ := out.Header()
	assert.Equal(t, "Ada Lovelace", h.Data["fullName"])

	orig, _ := a.Header()
	assert.Empty(t, orig.Data["fullName"])
}

func TestApplyDrop(t *testing.T) {
	teal := layout.Get("modern-teal")
	a := Seed()

	out, kind := ApplyDrop(a, teal, Drop{ActiveID: "skills", OverID: "column-2"})
	assert.Equal(t, DropMove, kind)
	s, _ := out.Find("skills")
	assert.Equal(t, 2, s.Column)
	assert.Equal(t, ids(a), ids(out))

	out, kind = ApplyDrop(a, teal, Drop{ActiveID: "courses", OverID: "strengths"})
	assert.Equal(t, DropReorder, kind)
	assert.Equal(t, "courses", ByColumn(out)[1][0].ID)
	s, _ = out.Find("courses")
	assert.Equal(t, 1, s.Column)

	out, kind = ApplyDrop(a, teal, Drop{ActiveID: "skills", OverID: "column-3"})
	assert.Equal(t, DropNone, kind)
	assert.True(t, Equal(a, out))

	_, kind = ApplyDrop(a, teal, Drop{ActiveID: "skills"})
	assert.Equal(t, DropNone, kind)
}

func TestApplyDrop_MovesToEndOfColumn(t *testing.T) {
	teal := layout.Get("modern-teal")
	a := Seed()

	out, kind := ApplyDrop(a, teal, Drop{ActiveID: "strengths", OverID: "courses"})
	assert.Equal(t, DropReorder, kind)
	left := ByColumn(out)[1]
	assert.Equal(t, "strengths", left[len(left)-1].ID)
	assert.Equal(t, "courses", left[len(left)-2].ID)
	assert.Equal(t, len(a), len(out))
}

func TestRecolumn_SwitchingTemplates(t *testing.T) {
	navy := layout.Get("modern-navy")
	out := Recolumn(Seed(), navy)

	for _, s := range out {
		if s.IsLocked {
			assert.Equal(t, 2, s.Column)
			continue
		}
		assert.Equal(t, 1, s.Column, s.ID)
	}
}

func TestOrphans(t *testing.T) {
	navy := layout.Get("modern-navy")
	orphans := Orphans(Seed(), navy)

	var got []string
	for _, o := range orphans {
		got = append(got, o.SectionID)
		assert.Equal(t, 2, o.Column)
	}
	assert.Equal(t, []string{"header", "summary", "education", "languages", "projects", "experience"}, got)
	assert.Empty(t, Orphans(Seed(), layout.Get("modern-teal")))
}

func TestCheck_ReportsProblems(t *testing.T) {
	teal := layout.Get("modern-teal")
	a := Arrangement{
		{ID: "h", Type: section.TypeHeader, Column: 2},
		{ID: "dup", Type: section.TypeSkills, Column: 1},
		{ID: "dup", Type: section.TypeSkills, Column: 1},
		{ID: "odd", Type: section.Type("portfolio"), Column: 3},
	}
	problems := Check(a, teal)

	var msgs []string
	for _, p := range problems {
		msgs = append(msgs, p.Message)
	}
	assert.Contains(t, msgs, "header section must be locked")
	assert.Contains(t, msgs, "duplicate section id")
	assert.Contains(t, msgs, `unknown section type "portfolio"`)
	assert.Contains(t, msgs, "column 3 is not declared by the layout")

	problems = Check(Arrangement{{ID: "s", Type: section.TypeSkills, Column: 1}}, teal)
	require.Len(t, problems, 1)
	assert.Equal(t, "expected exactly one header section, found 0", problems[0].Message)
}

func TestEqual_ComparesColumnOrder(t *testing.T) {
	a := Arrangement{
		{ID: "a", Column: 1},
		{ID: "x", Column: 2},
		{ID: "b", Column: 1},
	}
	b := Arrangement{
		{ID: "x", Column: 2},
		{ID: "a", Column: 1},
		{ID: "b", Column: 1},
	}
	assert.True(t, Equal(a, b))

	c := Arrangement{
		{ID: "b", Column: 1},
		{ID: "a", Column: 1},
		{ID: "x", Column: 2},
	}
	assert.False(t, Equal(a, c))
}
