package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"resume-intake/internal/apperr"
)

const resumeColumns = `id, candidate_id, file_name, file_path, file_size, processing_status,
        raw_text, uploaded_at, processed_at, uploaded_by`

// forwardFrom lists the statuses a resume may hold before moving to the key status.
var forwardFrom = map[string][]string{
	StatusProcessing: {StatusPending},
	StatusCompleted:  {StatusPending, StatusProcessing},
	StatusFailed:     {StatusPending, StatusProcessing},
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (*Resume, error) {
	var r Resume
	var candidateID, uploadedBy uuid.NullUUID
	var processedAt sql.NullTime
	err := row.Scan(&r.ID, &candidateID, &r.FileName, &r.FilePath, &r.FileSize, &r.ProcessingStatus,
		&r.RawText, &r.UploadedAt, &processedAt, &uploadedBy)
	if err != nil {
		return nil, err
	}
	r.CandidateID = nullUUID(candidateID)
	r.UploadedBy = nullUUID(uploadedBy)
	if processedAt.Valid {
		t := processedAt.Time
		r.ProcessedAt = &t
	}
	return &r, nil
}

// CreateResume inserts the resume row for a freshly stored file in status pending.
func (db *DB) CreateResume(ctx context.Context, in NewResume) (*Resume, error) {
	query := `
        INSERT INTO resumes (id, file_name, file_path, file_size, processing_status, uploaded_by, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING ` + resumeColumns
	row := db.connection.QueryRowContext(ctx, query,
		uuid.New(), in.FileName, in.FilePath, in.FileSize, StatusPending, in.UploadedBy,
	)
	r, err := scanResume(row)
	if err != nil {
		return nil, pgError("failed to save resume", err)
	}
	return r, nil
}

func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	row := db.connection.QueryRowContext(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	r, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("resume not found")
	}
	if err != nil {
		return nil, pgError("failed to load resume", err)
	}
	return r, nil
}

// SetResumeRawText stores the text extracted from the resume's file.
func (db *DB) SetResumeRawText(ctx context.Context, id uuid.UUID, rawText string) error {
	res, err := db.connection.ExecContext(ctx, `UPDATE resumes SET raw_text = $1 WHERE id = $2`, rawText, id)
	if err != nil {
		return pgError("failed to save resume text", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("resume not found")
	}
	return nil
}

// AdvanceResumeStatus moves a resume forward to status. Moving backwards, or
// sideways from a terminal status, is rejected with a conflict.
func (db *DB) AdvanceResumeStatus(ctx context.Context, id uuid.UUID, status string) error {
	from, ok := forwardFrom[status]
	if !ok {
		return apperr.Input(fmt.Sprintf("unknown processing status %q", status))
	}
	res, err := db.connection.ExecContext(ctx,
		`UPDATE resumes SET processing_status = $1 WHERE id = $2 AND processing_status = ANY($3)`,
		status, id, pq.Array(from),
	)
	if err != nil {
		return pgError("failed to update resume status", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var current string
	err = db.connection.QueryRowContext(ctx, `SELECT processing_status FROM resumes WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("resume not found")
	}
	if err != nil {
		return pgError("failed to load resume status", err)
	}
	return apperr.Conflict(fmt.Sprintf("resume is already %s", current), nil)
}

// ListStalledResumes returns resumes left in processing that already carry extracted text.
// A nil uploadedBy lists them for every user.
func (db *DB) ListStalledResumes(ctx context.Context, uploadedBy *uuid.UUID, limit int) ([]*Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes
        WHERE processing_status = $1 AND raw_text <> '' AND candidate_id IS NULL`
	args := []any{StatusProcessing}
	if uploadedBy != nil {
		query += ` AND uploaded_by = $2`
		args = append(args, *uploadedBy)
	}
	query += fmt.Sprintf(` ORDER BY uploaded_at LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgError("failed to list resumes", err)
	}
	defer rows.Close()

	var res []*Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, pgError("failed to read resume", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}
