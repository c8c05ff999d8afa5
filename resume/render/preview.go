// Package render maps a resume record to the structured preview document.
package render

import (
	"strings"

	"resume-builder/resume/model"
)

// Render builds the preview for rec at the measured container width. photoSrc
// is the already resolved photo source; an empty value renders no photo. The
// record is never mutated and partial records are always accepted.
func Render(rec model.Record, width float64, photoSrc string) Document {
	doc := Document{Sections: make([]Section, 0, 5)}
	if width > 0 {
		doc.Visible = true
		doc.Scale = width / ReferenceWidth
	}

	doc.Sections = append(doc.Sections, headerSection(rec, photoSrc))
	if s, ok := summarySection(rec); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := workExperienceSection(rec); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := educationSection(rec); ok {
		doc.Sections = append(doc.Sections, s)
	}
	if s, ok := skillsSection(rec); ok {
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

// ContactLine joins the locality parts with ", " and the contact parts with " • ".
// The two groups are separated by " • " only when both are non-empty.
func ContactLine(city, state, country, phone, email string) string {
	locality := model.JoinNonEmpty(", ", city, state, country)
	contact := model.JoinNonEmpty(" • ", phone, email)
	if locality != "" && contact != "" {
		return locality + " • " + contact
	}
	return locality + contact
}

// WorkDateRange formats an experience period. Open-ended periods end with "Present".
func WorkDateRange(start, end string) string {
	if !model.HasText(start) {
		return ""
	}
	if !model.HasText(end) {
		return model.FormatMonth(start) + " - Present"
	}
	return model.FormatMonth(start) + " - " + model.FormatMonth(end)
}

// EducationDateRange formats a study period. An absent end date is simply omitted.
func EducationDateRange(start, end string) string {
	if !model.HasText(start) {
		return ""
	}
	if !model.HasText(end) {
		return model.FormatMonth(start)
	}
	return model.FormatMonth(start) + " - " + model.FormatMonth(end)
}

func headerSection(rec model.Record, photoSrc string) Section {
	header := &Header{
		FullName: rec.FullName(),
		JobTitle: strings.TrimSpace(rec.JobTitle),
		Contact:  ContactLine(rec.City, rec.State, rec.Country, rec.Phone, rec.Email),
		Color:    rec.ColorHex,
	}
	if photoSrc != "" {
		header.Photo = &Image{
			Src:    photoSrc,
			Alt:    "profile photo",
			Radius: PhotoRadius(rec.BorderStyle),
			Width:  PhotoSize,
			Height: PhotoSize,
		}
	}
	return Section{Kind: SectionHeader, Header: header}
}

func summarySection(rec model.Record) (Section, bool) {
	if !model.HasText(rec.Summary) {
		return Section{}, false
	}
	return Section{
		Kind:       SectionSummary,
		Title:      TitleSummary,
		TitleColor: rec.ColorHex,
		Rule:       &Rule{Color: ruleColor(rec.ColorHex), Weight: 2},
		Text:       rec.Summary,
	}, true
}

func workExperienceSection(rec model.Record) (Section, bool) {
	items := rec.PresentWorkExperiences()
	if len(items) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			Title:       strings.TrimSpace(item.Position),
			Subtitle:    strings.TrimSpace(item.Company),
			DateRange:   WorkDateRange(item.StartDate, item.EndDate),
			Description: item.Description,
			Color:       rec.ColorHex,
		})
	}
	return Section{
		Kind:       SectionWorkExperience,
		Title:      TitleWorkExperience,
		TitleColor: rec.ColorHex,
		Rule:       &Rule{Color: ruleColor(rec.ColorHex), Weight: 1},
		Entries:    entries,
	}, true
}

func educationSection(rec model.Record) (Section, bool) {
	items := rec.PresentEducations()
	if len(items) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			Title:     strings.TrimSpace(item.Degree),
			Subtitle:  strings.TrimSpace(item.School),
			DateRange: EducationDateRange(item.StartDate, item.EndDate),
			Color:     rec.ColorHex,
		})
	}
	return Section{
		Kind:       SectionEducation,
		Title:      TitleEducation,
		TitleColor: rec.ColorHex,
		Rule:       &Rule{Color: ruleColor(rec.ColorHex), Weight: 1},
		Entries:    entries,
	}, true
}

func skillsSection(rec model.Record) (Section, bool) {
	skills := rec.PresentSkills()
	if len(skills) == 0 {
		return Section{}, false
	}
	radius := BadgeRadius(rec.BorderStyle)
	fill := badgeColor(rec.ColorHex)
	badges := make([]Badge, 0, len(skills))
	for _, skill := range skills {
		badges = append(badges, Badge{Label: skill, Radius: radius, Background: fill})
	}
	return Section{
		Kind:       SectionSkills,
		Title:      TitleSkills,
		TitleColor: rec.ColorHex,
		Rule:       &Rule{Color: ruleColor(rec.ColorHex), Weight: 1},
		Badges:     badges,
	}, true
}
