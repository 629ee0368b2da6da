// Package arrangement implements every mutation of a resume's section
// collection as a pure function: each operation takes an Arrangement and
// returns a new one, leaving its input untouched. Operations on missing or
// locked sections are silent no-ops because drag events may race with other
// state updates.
package arrangement

import (
	"slices"

	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

// Arrangement 是一份简历中按顺序排列的全部 Section。
// 同一列内的相对顺序即为其在切片中的出现顺序。
type Arrangement []section.Section

// Seed 返回编辑器打开时的默认 11 个 Section，页眉锁定在第 2 列。
func Seed() Arrangement {
	seed := []struct {
		id     string
		title  string
		typ    section.Type
		column int
	}{
		{"header", "Header", section.TypeHeader, 2},
		{"summary", "Summary", section.TypeSummary, 2},
		{"education", "Education", section.TypeEducation, 2},
		{"languages", "Languages", section.TypeLanguages, 2},
		{"projects", "Projects", section.TypeProjects, 2},
		{"experience", "Experience", section.TypeExperience, 2},
		{"strengths", "Strengths", section.TypeStrengths, 1},
		{"achievements", "Key Achievements", section.TypeAchievements, 1},
		{"skills", "Skills", section.TypeSkills, 1},
		{"interests", "Interests", section.TypeInterests, 1},
		{"courses", "Courses", section.TypeCourses, 1},
	}

	out := make(Arrangement, 0, len(seed))
	for _, s := range seed {
		out = append(out, section.Section{
			ID:       s.id,
			Title:    s.title,
			Type:     s.typ,
			Column:   s.column,
			Page:     1,
			IsLocked: s.typ == section.TypeHeader,
			Data:     section.DefaultData(s.typ),
		})
	}
	return out
}

// Clone returns a deep copy of a.
func (a Arrangement) Clone() Arrangement {
	if a == nil {
		return nil
	}
	out := make(Arrangement, len(a))
	for i, s := range a {
		out[i] = s.Clone()
	}
	return out
}

// Index returns the position of id, or -1.
func (a Arrangement) Index(id string) int {
	return slices.IndexFunc(a, func(s section.Section) bool { return s.ID == id })
}

// Find returns the section with id.
func (a Arrangement) Find(id string) (section.Section, bool) {
	if i := a.Index(id); i >= 0 {
		return a[i], true
	}
	return section.Section{}, false
}

// Header returns the locked header section, if any.
func (a Arrangement) Header() (section.Section, bool) {
	for _, s := range a {
		if s.Type == section.TypeHeader && s.IsLocked {
			return s, true
		}
	}
	return section.Section{}, false
}

// AddSection 追加一个新 Section，列由布局的默认规则决定，不影响已有顺序。
// 已存在页眉时再次添加页眉是无操作；未知类型同样返回原值。
func AddSection(a Arrangement, d layout.Descriptor, t section.Type, data map[string]string) Arrangement {
	if t == section.TypeHeader {
		if _, ok := a.Header(); ok {
			return a
		}
	}
	s, err := d.NewSection(t, data)
	if err != nil {
		return a
	}
	out := a.Clone()
	return append(out, s)
}

// RemoveSection 删除未锁定的 Section。
func RemoveSection(a Arrangement, id string) Arrangement {
	i := a.Index(id)
	if i < 0 || a[i].IsLocked {
		return a
	}
	out := a.Clone()
	return slices.Delete(out, i, i+1)
}

// UpdateData merges data into the section's payload. Locked sections may still
// be edited; locking only pins placement.
func UpdateData(a Arrangement, id string, data map[string]string) Arrangement {
	i := a.Index(id)
	if i < 0 {
		return a
	}
	out := a.Clone()
	if out[i].Data == nil {
		out[i].Data = make(map[string]string, len(data))
	}
	for k, v := range data {
		out[i].Data[k] = v
	}
	return out
}

// MoveToColumn sets the column of an unlocked section and touches nothing else.
func MoveToColumn(a Arrangement, id string, column int) Arrangement {
	i := a.Index(id)
	if i < 0 || a[i].IsLocked || column < 1 {
		return a
	}
	if a[i].Column == column {
		return a
	}
	out := a.Clone()
	out[i].Column = column
	return out
}

// Reorder moves the section to the index currently held by overID. Moving
// down lands after the target, moving up lands before it.
func Reorder(a Arrangement, id, overID string) Arrangement {
	if id == overID {
		return a
	}
	from, to := a.Index(id), a.Index(overID)
	if from < 0 || to < 0 || a[from].IsLocked {
		return a
	}

	out := a.Clone()
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}

// Drop 是一次拖拽结束事件：ActiveID 被拖动的 Section，OverID 为放置目标（列或 Section）。
type Drop struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// DropKind 表示拖拽结束后实际执行的操作。
type DropKind string

const (
	DropNone    DropKind = "none"
	DropMove    DropKind = "move"
	DropReorder DropKind = "reorder"
)

// ApplyDrop 区分放置目标：命中 Section ID 时为列内重排，命中已声明的列时为跨列移动；
// 二者只执行其一。
func ApplyDrop(a Arrangement, d layout.Descriptor, drop Drop) (Arrangement, DropKind) {
	if drop.ActiveID == "" || drop.OverID == "" || drop.ActiveID == drop.OverID {
		return a, DropNone
	}
	if a.Index(drop.ActiveID) < 0 {
		return a, DropNone
	}

	if a.Index(drop.OverID) >= 0 {
		return Reorder(a, drop.ActiveID, drop.OverID), DropReorder
	}

	if column, ok := layout.ParseColumnTarget(drop.OverID); ok && layout.HasColumn(d, column) {
		return MoveToColumn(a, drop.ActiveID, column), DropMove
	}
	return a, DropNone
}

// Recolumn 按布局重新计算每个未锁定 Section 的列，用于切换模板。
func Recolumn(a Arrangement, d layout.Descriptor) Arrangement {
	out := a.Clone()
	for i := range out {
		if out[i].IsLocked {
			continue
		}
		out[i].Column = layout.DefaultColumnFor(out[i].Type, d)
	}
	return out
}

// Rendered returns sections in display order: the locked header first, then
// the backing order.
func Rendered(a Arrangement) []section.Section {
	out := make([]section.Section, 0, len(a))
	header, ok := a.Header()
	if ok {
		out = append(out, header)
	}
	for _, s := range a {
		if ok && s.ID == header.ID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ByColumn groups sections by column in display order.
func ByColumn(a Arrangement) map[int][]section.Section {
	out := make(map[int][]section.Section)
	for _, s := range Rendered(a) {
		out[s.Column] = append(out[s.Column], s)
	}
	return out
}

// Equal reports whether a and b hold the same sections (by id, under
// section.Equal) with the same relative order inside every column.
func Equal(a, b Arrangement) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		other, ok := b.Find(s.ID)
		if !ok || !s.Equal(other) {
			return false
		}
	}
	ca, cb := ByColumn(a), ByColumn(b)
	if len(ca) != len(cb) {
		return false
	}
	for col, sections := range ca {
		others := cb[col]
		if len(sections) != len(others) {
			return false
		}
		for i := range sections {
			if sections[i].ID != others[i].ID {
				return false
			}
		}
	}
	return true
}
