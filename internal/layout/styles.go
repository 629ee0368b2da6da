package layout

// Styles 是模板的可定制样式。所有字段在有效的模板文档中都是必填的。
type Styles struct {
	PrimaryColor   string  `json:"primaryColor"`
	SecondaryColor string  `json:"secondaryColor"`
	HeadingFont    string  `json:"headingFont"`
	BodyFont       string  `json:"bodyFont"`
	SectionSpacing float64 `json:"sectionSpacing"`
	ContentPadding float64 `json:"contentPadding"`
}

// FontOptions 是样式面板提供的字体。
var FontOptions = []string{"Inter", "Arial", "Times New Roman", "Georgia", "Helvetica", "Roboto", "Open Sans"}

var baseStyles = Styles{
	PrimaryColor:   "#0F766E",
	SecondaryColor: "#134E4A",
	HeadingFont:    "Inter",
	BodyFont:       "Inter",
	SectionSpacing: 4,
	ContentPadding: 4,
}

// DefaultStyles returns the theme palette for a template; unknown templates get the blue theme.
func DefaultStyles(id TemplateID) Styles {
	s := baseStyles
	switch id {
	case ModernTeal:
	case ModernNavy:
		s.PrimaryColor = "#0A2647"
		s.SecondaryColor = "#E5EAF2"
	default:
		s.PrimaryColor = "#1D4ED8"
		s.SecondaryColor = "#EFF6FF"
	}
	return s
}
