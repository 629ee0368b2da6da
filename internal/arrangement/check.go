package arrangement

import (
	"fmt"

	"resumeStudio/internal/layout"
	"resumeStudio/internal/section"
)

// Orphan 是未被任何边界列认领的 Section。
type Orphan struct {
	SectionID string `json:"sectionId"`
	Column    int    `json:"column"`
}

// Orphans 报告列不属于布局声明列的 Section。
func Orphans(a Arrangement, d layout.Descriptor) []Orphan {
	var out []Orphan
	for _, s := range a {
		if !layout.HasColumn(d, s.Column) {
			out = append(out, Orphan{SectionID: s.ID, Column: s.Column})
		}
	}
	return out
}

// Problem 描述违反 Arrangement 不变量的一处问题。
type Problem struct {
	SectionID string `json:"sectionId,omitempty"`
	Message   string `json:"message"`
}

// Check 校验不变量：ID 唯一、类型合法、恰有一个锁定页眉、列已声明。
func Check(a Arrangement, d layout.Descriptor) []Problem {
	var problems []Problem
	seen := make(map[string]struct{}, len(a))
	headers := 0

	for _, s := range a {
		if s.ID == "" {
			problems = append(problems, Problem{Message: "section id is empty"})
		} else if _, dup := seen[s.ID]; dup {
			problems = append(problems, Problem{SectionID: s.ID, Message: "duplicate section id"})
		}
		seen[s.ID] = struct{}{}

		if !s.Type.Valid() {
			problems = append(problems, Problem{SectionID: s.ID, Message: fmt.Sprintf("unknown section type %q", s.Type)})
		}
		if s.Type == section.TypeHeader {
			headers++
			if !s.IsLocked {
				problems = append(problems, Problem{SectionID: s.ID, Message: "header section must be locked"})
			}
		}
		if !layout.HasColumn(d, s.Column) {
			problems = append(problems, Problem{SectionID: s.ID, Message: fmt.Sprintf("column %d is not declared by the layout", s.Column)})
		}
	}

	if headers != 1 {
		problems = append(problems, Problem{Message: fmt.Sprintf("expected exactly one header section, found %d", headers)})
	}
	return problems
}
