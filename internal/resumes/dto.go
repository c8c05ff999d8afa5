package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// ResumeResponse is the JSON shape of a saved resume.
type ResumeResponse struct {
	ResumeID  string       `json:"resumeId"`
	Title     string       `json:"title"`
	Content   model.Record `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ResumeSummary is the list item shape.
type ResumeSummary struct {
	ResumeID  string    `json:"resumeId"`
	Title     string    `json:"title"`
	FullName  string    `json:"fullName,omitempty"`
	HasPhoto  bool      `json:"hasPhoto"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:  resume.ID,
		Title:     resume.Title,
		Content:   resume.Content,
		CreatedAt: resume.CreatedAt,
		UpdatedAt: resume.UpdatedAt,
	}
}

func toSummary(resume Resume) ResumeSummary {
	return ResumeSummary{
		ResumeID:  resume.ID,
		Title:     resume.Title,
		FullName:  resume.Content.FullName(),
		HasPhoto:  resume.Content.Photo.Kind == model.PhotoStored,
		UpdatedAt: resume.UpdatedAt,
	}
}
