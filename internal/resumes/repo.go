package resumes

import "context"

// Repo defines persistence operations for saved resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	Update(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	Delete(ctx context.Context, userID, resumeID string) error
}
