package validation

import "resume-builder/resume/model"

// GeneralInfo covers the resume title and description.
var GeneralInfo = newSchema("general-info",
	text("title", func(r *model.Record) *string { return &r.Title }),
	text("description", func(r *model.Record) *string { return &r.Description }),
)

// PersonalInfo covers the photo and contact details.
var PersonalInfo = newSchema("personal-info",
	photoField(),
	text("firstName", func(r *model.Record) *string { return &r.FirstName }),
	text("lastName", func(r *model.Record) *string { return &r.LastName }),
	text("jobTitle", func(r *model.Record) *string { return &r.JobTitle }),
	text("city", func(r *model.Record) *string { return &r.City }),
	text("state", func(r *model.Record) *string { return &r.State }),
	text("country", func(r *model.Record) *string { return &r.Country }),
	text("phone", func(r *model.Record) *string { return &r.Phone }),
	text("email", func(r *model.Record) *string { return &r.Email }),
)

// WorkExperience covers the list of experience entries.
var WorkExperience = newSchema("work-experience", workExperiencesField())

// Education covers the list of education entries.
var Education = newSchema("education", educationsField())

// Skills covers the ordered skill list.
var Skills = newSchema("skills", skillsField())

// Summary covers the free-text professional profile.
var Summary = newSchema("summary",
	text("summary", func(r *model.Record) *string { return &r.Summary }),
)

// Style covers the preview theming that is edited outside the steps.
var Style = newSchema("style",
	text("colorHex", func(r *model.Record) *string { return &r.ColorHex }),
	borderStyleField(),
)

// Resume is the union of every schema and is used when saving.
var Resume = MustMerge("resume", GeneralInfo, PersonalInfo, WorkExperience, Education, Skills, Summary, Style)
