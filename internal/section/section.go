package section

import (
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Type 是可放置内容块的语义类型（封闭枚举）。
type Type string

const (
	TypeHeader       Type = "header"
	TypeSummary      Type = "summary"
	TypeExperience   Type = "experience"
	TypeEducation    Type = "education"
	TypeAchievements Type = "achievements"
	TypeProjects     Type = "projects"
	TypeSkills       Type = "skills"
	TypeLanguages    Type = "languages"
	TypeInterests    Type = "interests"
	TypeCourses      Type = "courses"
	TypeStrengths    Type = "strengths"
	// TypeContainer 与 TypeGeneric 是模板设计器使用的通用分组/区块。
	TypeContainer Type = "container"
	TypeGeneric   Type = "section"
)

var allTypes = []Type{
	TypeHeader, TypeSummary, TypeExperience, TypeEducation, TypeAchievements, TypeProjects,
	TypeSkills, TypeLanguages, TypeInterests, TypeCourses, TypeStrengths, TypeContainer, TypeGeneric,
}

// Types 返回全部合法类型，顺序固定。
func Types() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// Valid reports whether t belongs to the closed enumeration.
func (t Type) Valid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ErrUnknownType is wrapped by ValidationError when a section type is not in the enumeration.
var ErrUnknownType = errors.New("unknown section type")

// ValidationError 描述构造 Section 时的输入错误。
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Section 表示简历中的一个可放置内容块。
// Page 仅为创建时的建议值，实际分页以 pagination 包的估算结果为准。
type Section struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Type     Type              `json:"type"`
	Column   int               `json:"column"`
	Page     int               `json:"page"`
	Order    int               `json:"order"`
	IsLocked bool              `json:"isLocked,omitempty"`
	Width    string            `json:"width,omitempty"`
	Height   string            `json:"height,omitempty"`
	Children []Section         `json:"children,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}

// NewID 生成 `<prefix>-<uuid>` 形式的唯一 ID，不会复用。
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// New 创建一个新的 Section：ID 全新生成，page 为 1，data 为注册表默认值与 overrides 的合并。
// column 小于 1 时按 1 处理。
func New(t Type, column int, overrides map[string]string) (Section, error) {
	if !t.Valid() {
		return Section{}, &ValidationError{Field: "type", Err: fmt.Errorf("%w: %q", ErrUnknownType, t)}
	}
	if column < 1 {
		column = 1
	}

	data := DefaultData(t)
	maps.Copy(data, overrides)

	return Section{
		ID:       NewID(string(t)),
		Title:    DefaultTitle(t),
		Type:     t,
		Column:   column,
		Page:     1,
		IsLocked: t == TypeHeader,
		Data:     data,
	}, nil
}

// Clone returns a deep copy so callers never share Data maps or Children slices.
func (s Section) Clone() Section {
	out := s
	if s.Data != nil {
		out.Data = maps.Clone(s.Data)
	}
	if s.Children != nil {
		out.Children = make([]Section, len(s.Children))
		for i, child := range s.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Equal compares ids, titles, types, columns, lock flags, data and children.
// Order and Page are positional/advisory and not part of section identity.
func (s Section) Equal(other Section) bool {
	if s.ID != other.ID || s.Title != other.Title || s.Type != other.Type ||
		s.Column != other.Column || s.IsLocked != other.IsLocked {
		return false
	}
	if len(s.Data) != len(other.Data) {
		return false
	}
	for k, v := range s.Data {
		if ov, ok := other.Data[k]; !ok || ov != v {
			return false
		}
	}
	if len(s.Children) != len(other.Children) {
		return false
	}
	for i := range s.Children {
		if !s.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
