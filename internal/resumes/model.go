package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// Resume is a saved resume record owned by one user. Content never holds a
// pending or removed photo: photos are either absent or a stored reference.
type Resume struct {
	ID        string
	UserID    string
	Title     string
	Content   model.Record
	PhotoKey  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
