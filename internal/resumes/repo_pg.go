package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The record is stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	content, err := json.Marshal(resume.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	const query = `
INSERT INTO resumes (
    id, user_id, title, content, photo_key, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		content,
		resume.PhotoKey,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// Update replaces the editable columns of a resume owned by the user.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	content, err := json.Marshal(resume.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	const query = `
UPDATE resumes
SET title = $3, content = $4, photo_key = $5, updated_at = $6
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		content,
		resume.PhotoKey,
		resume.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// GetByID returns a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, title, content, photo_key, created_at, updated_at
FROM resumes
WHERE id = $1
LIMIT 1`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

// ListByUser lists resumes ordered by most recent update.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, title, content, photo_key, created_at, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY updated_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Delete removes a resume owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, resumeID, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		resume  Resume
		content []byte
	)
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&content,
		&resume.PhotoKey,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if err := json.Unmarshal(content, &resume.Content); err != nil {
		return Resume{}, fmt.Errorf("decode content for resume %s: %w", resume.ID, err)
	}
	return resume, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
