// Package layout holds the read-only per-template layout descriptors and the
// default-placement rule for new sections.
package layout

import (
	"strconv"
	"strings"

	"resumeStudio/internal/pagination"
	"resumeStudio/internal/section"
)

// TemplateID identifies a known template. Unknown covers every identifier the
// editor does not ship a layout for.
type TemplateID int

const (
	Unknown TemplateID = iota
	ModernTeal
	ModernNavy
)

var templateNames = map[TemplateID]string{
	ModernTeal: "modern-teal",
	ModernNavy: "modern-navy",
}

// ParseTemplateID resolves a template identifier once; unmatched values map to Unknown.
func ParseTemplateID(raw string) TemplateID {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for id, name := range templateNames {
		if name == raw {
			return id
		}
	}
	return Unknown
}

func (id TemplateID) String() string {
	if name, ok := templateNames[id]; ok {
		return name
	}
	return "unknown"
}

// Boundary 声明某一列默认承载的 section 类型。
type Boundary struct {
	Column   int            `json:"column"`
	Sections []section.Type `json:"sections"`
}

// Descriptor 描述模板的列数与各列边界，模板选定后不可变。
type Descriptor struct {
	Template     string     `json:"template"`
	Columns      int        `json:"columns"`
	Boundaries   []Boundary `json:"boundaries"`
	PageHeightPx float64    `json:"pageHeightPx"`
}

var descriptors = map[TemplateID]Descriptor{
	ModernTeal: {
		Template: "modern-teal",
		Columns:  2,
		Boundaries: []Boundary{
			{Column: 1, Sections: []section.Type{
				section.TypeStrengths, section.TypeAchievements, section.TypeSkills,
				section.TypeInterests, section.TypeCourses,
			}},
			{Column: 2, Sections: []section.Type{
				section.TypeHeader, section.TypeSummary, section.TypeEducation,
				section.TypeLanguages, section.TypeProjects, section.TypeExperience,
			}},
		},
		PageHeightPx: pagination.CompactPageHeightPx,
	},
	ModernNavy: {
		Template: "modern-navy",
		Columns:  1,
		Boundaries: []Boundary{
			{Column: 1, Sections: []section.Type{
				section.TypeHeader, section.TypeSummary, section.TypeExperience, section.TypeEducation,
				section.TypeSkills, section.TypeAchievements, section.TypeCourses,
			}},
		},
		PageHeightPx: pagination.A4HeightPx,
	},
}

// Get returns the descriptor for a template identifier. Unknown identifiers
// resolve to a single column with no boundaries.
func Get(templateID string) Descriptor {
	return ForTemplate(ParseTemplateID(templateID))
}

// ForTemplate is Get for an already-parsed identifier.
func ForTemplate(id TemplateID) Descriptor {
	d, ok := descriptors[id]
	if !ok {
		return Descriptor{Template: id.String(), Columns: 1, PageHeightPx: pagination.A4HeightPx}
	}
	out := d
	out.Boundaries = make([]Boundary, len(d.Boundaries))
	for i, b := range d.Boundaries {
		out.Boundaries[i] = Boundary{Column: b.Column, Sections: append([]section.Type(nil), b.Sections...)}
	}
	return out
}

// DefaultColumnFor scans boundaries in declared order and returns the first
// column listing t. Without a match it returns the first declared column, or
// 1 when there are no boundaries.
func DefaultColumnFor(t section.Type, d Descriptor) int {
	for _, b := range d.Boundaries {
		for _, candidate := range b.Sections {
			if candidate == t {
				return b.Column
			}
		}
	}
	if len(d.Boundaries) > 0 {
		return d.Boundaries[0].Column
	}
	return 1
}

// DeclaredColumns lists the columns a section may occupy. Boundary columns are
// authoritative; without boundaries every column up to Columns is declared.
func DeclaredColumns(d Descriptor) []int {
	if len(d.Boundaries) > 0 {
		cols := make([]int, 0, len(d.Boundaries))
		seen := make(map[int]struct{}, len(d.Boundaries))
		for _, b := range d.Boundaries {
			if _, ok := seen[b.Column]; ok {
				continue
			}
			seen[b.Column] = struct{}{}
			cols = append(cols, b.Column)
		}
		return cols
	}
	n := max(d.Columns, 1)
	cols := make([]int, n)
	for i := range cols {
		cols[i] = i + 1
	}
	return cols
}

// HasColumn reports whether column c is declared by d.
func HasColumn(d Descriptor, c int) bool {
	for _, declared := range DeclaredColumns(d) {
		if declared == c {
			return true
		}
	}
	return false
}

// ParseColumnTarget recognises a column drop-target identifier: "2" or "column-2".
func ParseColumnTarget(target string) (int, bool) {
	target = strings.TrimPrefix(strings.TrimSpace(target), "column-")
	n, err := strconv.Atoi(target)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NewSection 使用该布局的默认列创建 Section。
func (d Descriptor) NewSection(t section.Type, data map[string]string) (section.Section, error) {
	return section.New(t, DefaultColumnFor(t, d), data)
}
