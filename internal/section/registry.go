package section

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldKind 决定表单控件类型以及校验规则。
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindRichText FieldKind = "richtext"
	KindDate     FieldKind = "date"
	KindSelect   FieldKind = "select"
)

// FieldDescriptor 描述某类 Section 的一个表单字段。
type FieldDescriptor struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Definition 是注册表中一个类型的完整描述。
type Definition struct {
	Type        Type              `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDescriptor `json:"fields"`
}

// ProficiencyLevels 是语言熟练度的可选值。
var ProficiencyLevels = []string{"Native", "Fluent", "Advanced", "Intermediate", "Basic"}

// registry 是类型到字段列表的唯一来源，表单与默认数据构造都从这里读取。
var registry = map[Type]Definition{
	TypeHeader: {
		Type:  TypeHeader,
		Title: "Header",
		Fields: []FieldDescriptor{
			{Name: "fullName", Label: "Full Name", Kind: KindText, Required: true},
			{Name: "jobTitle", Label: "Job Title", Kind: KindText},
			{Name: "email", Label: "Email", Kind: KindText},
			{Name: "phone", Label: "Phone", Kind: KindText},
			{Name: "location", Label: "Location", Kind: KindText},
			{Name: "website", Label: "Website", Kind: KindText},
		},
	},
	TypeSummary: {
		Type:   TypeSummary,
		Title:  "Summary",
		Fields: []FieldDescriptor{{Name: "summary", Label: "Professional Summary", Kind: KindRichText, Required: true}},
	},
	TypeExperience: {
		Type:        TypeExperience,
		Title:       "Experience",
		Description: "Add your professional experience, internships, or relevant work history",
		Fields: []FieldDescriptor{
			{Name: "jobTitle", Label: "Job Title", Kind: KindText, Required: true},
			{Name: "company", Label: "Company", Kind: KindText, Required: true},
			{Name: "location", Label: "Location", Kind: KindText, Required: true},
			{Name: "startDate", Label: "Start Date", Kind: KindDate, Required: true},
			{Name: "endDate", Label: "End Date", Kind: KindDate},
			{Name: "description", Label: "Description", Kind: KindRichText, Required: true},
		},
	},
	TypeEducation: {
		Type:        TypeEducation,
		Title:       "Education",
		Description: "Add your academic background, degrees, and certifications",
		Fields: []FieldDescriptor{
			{Name: "degree", Label: "Degree", Kind: KindText, Required: true},
			{Name: "institution", Label: "Institution", Kind: KindText, Required: true},
			{Name: "location", Label: "Location", Kind: KindText, Required: true},
			{Name: "graduationDate", Label: "Graduation Date", Kind: KindDate, Required: true},
			{Name: "gpa", Label: "GPA", Kind: KindText},
			{Name: "achievements", Label: "Achievements", Kind: KindTextarea},
		},
	},
	TypeAchievements: {
		Type:        TypeAchievements,
		Title:       "Key Achievements",
		Description: "Add notable accomplishments, awards, and recognition",
		Fields: []FieldDescriptor{
			{Name: "title", Label: "Achievement Title", Kind: KindText, Required: true},
			{Name: "issuer", Label: "Issuer", Kind: KindText, Required: true},
			{Name: "date", Label: "Date", Kind: KindDate, Required: true},
			{Name: "description", Label: "Description", Kind: KindTextarea},
		},
	},
	TypeProjects: {
		Type:        TypeProjects,
		Title:       "Projects",
		Description: "Add significant projects you've worked on",
		Fields: []FieldDescriptor{
			{Name: "name", Label: "Project Name", Kind: KindText, Required: true},
			{Name: "role", Label: "Your Role", Kind: KindText, Required: true},
			{Name: "technologies", Label: "Technologies Used", Kind: KindText, Required: true},
			{Name: "startDate", Label: "Start Date", Kind: KindDate, Required: true},
			{Name: "endDate", Label: "End Date", Kind: KindDate},
			{Name: "description", Label: "Description", Kind: KindRichText, Required: true},
		},
	},
	TypeSkills: {
		Type:        TypeSkills,
		Title:       "Skills",
		Description: "Add technical, professional, or soft skills",
		Fields: []FieldDescriptor{
			{Name: "category", Label: "Skill Category", Kind: KindText, Required: true},
			{Name: "skills", Label: "Skills (comma-separated)", Kind: KindTextarea, Required: true},
		},
	},
	TypeLanguages: {
		Type:        TypeLanguages,
		Title:       "Languages",
		Description: "Add languages you speak and proficiency levels",
		Fields: []FieldDescriptor{
			{Name: "language", Label: "Language", Kind: KindText, Required: true},
			{Name: "proficiency", Label: "Proficiency Level", Kind: KindSelect, Required: true, Options: ProficiencyLevels},
		},
	},
	TypeInterests: {
		Type:        TypeInterests,
		Title:       "Interests",
		Description: "Add hobbies and personal interests",
		Fields: []FieldDescriptor{
			{Name: "name", Label: "Interest", Kind: KindText, Required: true},
			{Name: "description", Label: "Description", Kind: KindTextarea},
		},
	},
	TypeCourses: {
		Type:  TypeCourses,
		Title: "Courses",
		Fields: []FieldDescriptor{
			{Name: "name", Label: "Course Name", Kind: KindText, Required: true},
			{Name: "provider", Label: "Provider", Kind: KindText},
			{Name: "date", Label: "Completion Date", Kind: KindDate},
		},
	},
	TypeStrengths: {
		Type:  TypeStrengths,
		Title: "Strengths",
		Fields: []FieldDescriptor{
			{Name: "title", Label: "Strength", Kind: KindText, Required: true},
			{Name: "description", Label: "Description", Kind: KindTextarea},
		},
	},
	TypeContainer: {Type: TypeContainer, Title: "Container"},
	TypeGeneric:   {Type: TypeGeneric, Title: "Section"},
}

// Lookup 返回类型定义。
func Lookup(t Type) (Definition, bool) {
	def, ok := registry[t]
	return def, ok
}

// Registry returns every definition in enumeration order.
func Registry() []Definition {
	out := make([]Definition, 0, len(allTypes))
	for _, t := range allTypes {
		out = append(out, registry[t])
	}
	return out
}

// Fields returns the ordered descriptors for t, or nil for unknown types.
func Fields(t Type) []FieldDescriptor {
	return registry[t].Fields
}

// DefaultTitle 返回类型的显示名称。
func DefaultTitle(t Type) string {
	if def, ok := registry[t]; ok && def.Title != "" {
		return def.Title
	}
	return string(t)
}

// DefaultData 为每个注册字段生成空值。
func DefaultData(t Type) map[string]string {
	fields := registry[t].Fields
	data := make(map[string]string, len(fields))
	for _, f := range fields {
		data[f.Name] = ""
	}
	return data
}

// FieldError 表示单个字段的校验失败。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	})
	return v
}

// IsISODate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
func IsISODate(value string) bool {
	value = strings.TrimSpace(value)
	if _, err := time.Parse(time.DateOnly, value); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}

func (f FieldDescriptor) rule() string {
	var rules []string
	if f.Required {
		rules = append(rules, "required")
	} else {
		rules = append(rules, "omitempty")
	}
	switch f.Kind {
	case KindDate:
		rules = append(rules, "isodate")
	case KindSelect:
		if len(f.Options) > 0 {
			rules = append(rules, "oneof="+strings.Join(quoteOptions(f.Options), " "))
		}
	}
	return strings.Join(rules, ",")
}

func quoteOptions(options []string) []string {
	out := make([]string, len(options))
	for i, o := range options {
		if strings.ContainsRune(o, ' ') {
			o = "'" + o + "'"
		}
		out[i] = o
	}
	return out
}

// ValidateData 按注册表校验表单数据；未知类型返回单个 type 错误。
func ValidateData(t Type, data map[string]string) []FieldError {
	def, ok := registry[t]
	if !ok {
		return []FieldError{{Field: "type", Message: "unknown section type"}}
	}

	var errs []FieldError
	for _, f := range def.Fields {
		value := strings.TrimSpace(data[f.Name])
		if err := validate.Var(value, f.rule()); err != nil {
			errs = append(errs, FieldError{Field: f.Name, Message: fieldMessage(f, err)})
		}
	}
	return errs
}

func fieldMessage(f FieldDescriptor, err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return f.Label + " is required"
		case "isodate":
			return f.Label + " must be an ISO date"
		case "oneof":
			return f.Label + " must be one of " + strings.Join(f.Options, ", ")
		}
	}
	return f.Label + " is invalid"
}
