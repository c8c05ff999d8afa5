package render

// SectionKind identifies a preview section.
type SectionKind string

const (
	SectionHeader         SectionKind = "header"
	SectionSummary        SectionKind = "summary"
	SectionWorkExperience SectionKind = "workExperience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
)

// Section titles as shown on the page.
const (
	TitleSummary        = "Professional Profile"
	TitleWorkExperience = "Work Experience"
	TitleEducation      = "Education"
	TitleSkills         = "Skills"
)

// Document is the renderable preview. Sections are in page order.
type Document struct {
	Visible  bool      `json:"visible"`
	Scale    float64   `json:"scale"`
	Sections []Section `json:"sections"`
}

// Section returns the section of the given kind, if it was emitted.
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Kinds lists the emitted section kinds in order.
func (d Document) Kinds() []SectionKind {
	out := make([]SectionKind, 0, len(d.Sections))
	for _, s := range d.Sections {
		out = append(out, s.Kind)
	}
	return out
}

// Section is one labeled block of the page. Only the payload matching Kind is set.
type Section struct {
	Kind       SectionKind `json:"kind"`
	Title      string      `json:"title,omitempty"`
	TitleColor string      `json:"titleColor,omitempty"`
	Rule       *Rule       `json:"rule,omitempty"`

	Header  *Header `json:"header,omitempty"`
	Text    string  `json:"text,omitempty"`
	Entries []Entry `json:"entries,omitempty"`
	Badges  []Badge `json:"badges,omitempty"`
}

// Rule is the horizontal separator drawn above a section.
type Rule struct {
	Color  string `json:"color"`
	Weight int    `json:"weight"`
}

// Header carries the identity block at the top of the page.
type Header struct {
	Photo    *Image `json:"photo,omitempty"`
	FullName string `json:"fullName,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Image is a resolved photo.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Radius string `json:"radius"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Entry is one work experience or education row.
type Entry struct {
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	DateRange   string `json:"dateRange,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Badge is a single skill label.
type Badge struct {
	Label      string `json:"label"`
	Radius     string `json:"radius"`
	Background string `json:"background"`
}
