package model

import "strings"

// Record represents the resume being edited. Every field is optional so that a
// record can be stored and rendered at any point of the step-by-step flow.
type Record struct {
	ID string `json:"id,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Photo     Photo  `json:"photo,omitzero"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`

	WorkExperiences []WorkExperience `json:"workExperiences,omitempty"`
	Educations      []Education      `json:"educations,omitempty"`
	Skills          []string         `json:"skills,omitempty"`
	Summary         string           `json:"summary,omitempty"`

	ColorHex    string      `json:"colorHex,omitempty"`
	BorderStyle BorderStyle `json:"borderStyle,omitempty"`
}

// WorkExperience represents a work history entry.
type WorkExperience struct {
	Position    string `json:"position,omitempty"`
	Company     string `json:"company,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsPresent reports whether at least one field of the entry carries text.
func (w WorkExperience) IsPresent() bool {
	return HasText(w.Position) || HasText(w.Company) || HasText(w.StartDate) || HasText(w.EndDate) || HasText(w.Description)
}

// Trimmed returns a copy with every field trimmed.
func (w WorkExperience) Trimmed() WorkExperience {
	return WorkExperience{
		Position:    strings.TrimSpace(w.Position),
		Company:     strings.TrimSpace(w.Company),
		StartDate:   strings.TrimSpace(w.StartDate),
		EndDate:     strings.TrimSpace(w.EndDate),
		Description: strings.TrimSpace(w.Description),
	}
}

// Education represents an education entry.
type Education struct {
	Degree    string `json:"degree,omitempty"`
	School    string `json:"school,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// IsPresent reports whether at least one field of the entry carries text.
func (e Education) IsPresent() bool {
	return HasText(e.Degree) || HasText(e.School) || HasText(e.StartDate) || HasText(e.EndDate)
}

// Trimmed returns a copy with every field trimmed.
func (e Education) Trimmed() Education {
	return Education{
		Degree:    strings.TrimSpace(e.Degree),
		School:    strings.TrimSpace(e.School),
		StartDate: strings.TrimSpace(e.StartDate),
		EndDate:   strings.TrimSpace(e.EndDate),
	}
}

// FullName joins the non-empty name parts with a single space.
func (r Record) FullName() string {
	return JoinNonEmpty(" ", r.FirstName, r.LastName)
}

// PresentWorkExperiences returns the entries that carry text, in input order.
func (r Record) PresentWorkExperiences() []WorkExperience {
	out := make([]WorkExperience, 0, len(r.WorkExperiences))
	for _, item := range r.WorkExperiences {
		if item.IsPresent() {
			out = append(out, item)
		}
	}
	return out
}

// PresentEducations returns the entries that carry text, in input order.
func (r Record) PresentEducations() []Education {
	out := make([]Education, 0, len(r.Educations))
	for _, item := range r.Educations {
		if item.IsPresent() {
			out = append(out, item)
		}
	}
	return out
}

// PresentSkills returns the non-blank skills, trimmed, in input order.
func (r Record) PresentSkills() []string {
	out := make([]string, 0, len(r.Skills))
	for _, skill := range r.Skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Clone returns a deep copy so callers can mutate slices without aliasing.
func (r Record) Clone() Record {
	out := r
	out.Photo = r.Photo.Clone()
	if r.WorkExperiences != nil {
		out.WorkExperiences = append([]WorkExperience(nil), r.WorkExperiences...)
	}
	if r.Educations != nil {
		out.Educations = append([]Education(nil), r.Educations...)
	}
	if r.Skills != nil {
		out.Skills = append([]string(nil), r.Skills...)
	}
	return out
}

// HasText reports whether value is non-empty after trimming.
func HasText(value string) bool {
	return strings.TrimSpace(value) != ""
}

// JoinNonEmpty trims parts and joins the non-empty ones with sep.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, sep)
}
