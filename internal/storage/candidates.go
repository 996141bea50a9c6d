package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"resume-intake/internal/apperr"
)

const candidateColumns = `id, email, first_name, last_name, phone, location, linkedin_url, summary,
        total_experience_years, created_at, updated_at, created_by`

func scanCandidate(row rowScanner) (*Candidate, error) {
	var c Candidate
	var createdBy uuid.NullUUID
	err := row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.Location, &c.LinkedInURL,
		&c.Summary, &c.TotalExperienceYears, &c.CreatedAt, &c.UpdatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	c.CreatedBy = nullUUID(createdBy)
	return &c, nil
}

// SaveParsedResume writes a new candidate, links the originating resume to it
// and inserts its skills, work experience and education, all in one transaction.
// The resume must belong to the candidate's creator and must not be completed yet.
func (db *DB) SaveParsedResume(ctx context.Context, in ParsedResume) (*Candidate, error) {
	var candidate *Candidate
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		c := in.Candidate
		row := tx.QueryRowContext(ctx, `
            INSERT INTO candidates (id, email, first_name, last_name, phone, location, linkedin_url,
                                    summary, total_experience_years, created_by, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
            RETURNING `+candidateColumns,
			uuid.New(), c.Email, c.FirstName, c.LastName, c.Phone, c.Location, c.LinkedInURL,
			c.Summary, c.TotalExperienceYears, c.CreatedBy,
		)
		var err error
		candidate, err = scanCandidate(row)
		if err != nil {
			return pgError("failed to save candidate", err)
		}

		res, err := tx.ExecContext(ctx, `
            UPDATE resumes
            SET candidate_id = $1, processing_status = $2, processed_at = NOW()
            WHERE id = $3 AND processing_status = ANY($4) AND (uploaded_by IS NULL OR uploaded_by = $5)`,
			candidate.ID, StatusCompleted, in.ResumeID, pq.Array(forwardFrom[StatusCompleted]), c.CreatedBy,
		)
		if err != nil {
			return pgError("failed to update resume", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("resume not found or already processed")
		}

		if err := insertSkills(ctx, tx, candidate.ID, in.Skills); err != nil {
			return err
		}
		if err := insertWorkExperience(ctx, tx, candidate.ID, in.WorkExperience); err != nil {
			return err
		}
		return insertEducation(ctx, tx, candidate.ID, in.Education)
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func insertSkills(ctx context.Context, tx *sql.Tx, candidateID uuid.UUID, skills []NewSkill) error {
	if len(skills) == 0 {
		return nil
	}
	args := make([]any, 0, len(skills)*5)
	for _, s := range skills {
		args = append(args, uuid.New(), candidateID, s.Name, s.Category, s.Proficiency)
	}
	query := `INSERT INTO candidate_skills (id, candidate_id, skill_name, skill_category, proficiency_level) VALUES ` +
		valuesList(len(skills), 5)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return pgError("failed to save skills", err)
	}
	return nil
}

func insertWorkExperience(ctx context.Context, tx *sql.Tx, candidateID uuid.UUID, entries []NewWorkExperience) error {
	if len(entries) == 0 {
		return nil
	}
	args := make([]any, 0, len(entries)*9)
	for _, e := range entries {
		args = append(args, uuid.New(), candidateID, e.CompanyName, e.JobTitle, e.Location,
			e.StartDate, e.EndDate, e.IsCurrent, e.Description)
	}
	query := `INSERT INTO work_experience (id, candidate_id, company_name, job_title, location, start_date,
                                  end_date, is_current, description) VALUES ` + valuesList(len(entries), 9)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return pgError("failed to save work experience", err)
	}
	return nil
}

func insertEducation(ctx context.Context, tx *sql.Tx, candidateID uuid.UUID, entries []NewEducation) error {
	if len(entries) == 0 {
		return nil
	}
	args := make([]any, 0, len(entries)*8)
	for _, e := range entries {
		args = append(args, uuid.New(), candidateID, e.InstitutionName, e.Degree, e.FieldOfStudy,
			e.StartDate, e.EndDate, e.Grade)
	}
	query := `INSERT INTO education (id, candidate_id, institution_name, degree, field_of_study, start_date,
                            end_date, grade) VALUES ` + valuesList(len(entries), 8)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return pgError("failed to save education", err)
	}
	return nil
}

// ListCandidates returns every candidate, most recently created first.
func (db *DB) ListCandidates(ctx context.Context) ([]*Candidate, error) {
	rows, err := db.connection.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC`)
	if err != nil {
		return nil, pgError("failed to list candidates", err)
	}
	defer rows.Close()

	res := []*Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, pgError("failed to read candidate", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	row := db.connection.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("candidate not found")
	}
	if err != nil {
		return nil, pgError("failed to load candidate", err)
	}
	return c, nil
}

// GetCandidateDetail loads the candidate and its child rows concurrently.
func (db *DB) GetCandidateDetail(ctx context.Context, id uuid.UUID) (*CandidateDetail, error) {
	var (
		candidate  *Candidate
		skills     []Skill
		experience []WorkExperience
		education  []Education
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidate, err = db.GetCandidate(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = db.listSkills(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		experience, err = db.listWorkExperience(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		education, err = db.listEducation(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CandidateDetail{
		Candidate:      *candidate,
		Skills:         skills,
		WorkExperience: experience,
		Education:      education,
	}, nil
}

func (db *DB) listSkills(ctx context.Context, candidateID uuid.UUID) ([]Skill, error) {
	rows, err := db.connection.QueryContext(ctx, `
        SELECT id, candidate_id, skill_name, skill_category, proficiency_level, created_at
        FROM candidate_skills WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return nil, pgError("failed to load skills", err)
	}
	defer rows.Close()

	res := []Skill{}
	for rows.Next() {
		var s Skill
		var cid uuid.NullUUID
		if err := rows.Scan(&s.ID, &cid, &s.SkillName, &s.SkillCategory, &s.ProficiencyLevel, &s.CreatedAt); err != nil {
			return nil, pgError("failed to read skill", err)
		}
		s.CandidateID = nullUUID(cid)
		res = append(res, s)
	}
	return res, rows.Err()
}

func (db *DB) listWorkExperience(ctx context.Context, candidateID uuid.UUID) ([]WorkExperience, error) {
	rows, err := db.connection.QueryContext(ctx, `
        SELECT id, candidate_id, company_name, job_title, location, start_date, end_date,
               is_current, description, created_at
        FROM work_experience WHERE candidate_id = $1
        ORDER BY start_date DESC NULLS LAST`, candidateID)
	if err != nil {
		return nil, pgError("failed to load work experience", err)
	}
	defer rows.Close()

	res := []WorkExperience{}
	for rows.Next() {
		var w WorkExperience
		var cid uuid.NullUUID
		var start, end sql.NullString
		if err := rows.Scan(&w.ID, &cid, &w.CompanyName, &w.JobTitle, &w.Location, &start, &end,
			&w.IsCurrent, &w.Description, &w.CreatedAt); err != nil {
			return nil, pgError("failed to read work experience", err)
		}
		w.CandidateID = nullUUID(cid)
		w.StartDate = nullString(start)
		w.EndDate = nullString(end)
		res = append(res, w)
	}
	return res, rows.Err()
}

func (db *DB) listEducation(ctx context.Context, candidateID uuid.UUID) ([]Education, error) {
	rows, err := db.connection.QueryContext(ctx, `
        SELECT id, candidate_id, institution_name, degree, field_of_study, start_date, end_date,
               grade, created_at
        FROM education WHERE candidate_id = $1
        ORDER BY start_date DESC NULLS LAST`, candidateID)
	if err != nil {
		return nil, pgError("failed to load education", err)
	}
	defer rows.Close()

	res := []Education{}
	for rows.Next() {
		var e Education
		var cid uuid.NullUUID
		var start, end sql.NullString
		if err := rows.Scan(&e.ID, &cid, &e.InstitutionName, &e.Degree, &e.FieldOfStudy, &start, &end,
			&e.Grade, &e.CreatedAt); err != nil {
			return nil, pgError("failed to read education", err)
		}
		e.CandidateID = nullUUID(cid)
		e.StartDate = nullString(start)
		e.EndDate = nullString(end)
		res = append(res, e)
	}
	return res, rows.Err()
}

// DeleteCandidate removes a candidate together with its skills, work experience
// and education, and detaches the resumes it was created from.
func (db *DB) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		children := []struct {
			query string
			what  string
		}{
			{`DELETE FROM candidate_skills WHERE candidate_id = $1`, "skills"},
			{`DELETE FROM work_experience WHERE candidate_id = $1`, "work experience"},
			{`DELETE FROM education WHERE candidate_id = $1`, "education"},
			{`UPDATE resumes SET candidate_id = NULL WHERE candidate_id = $1`, "resumes"},
		}
		for _, c := range children {
			if _, err := tx.ExecContext(ctx, c.query, id); err != nil {
				return pgError("failed to delete candidate "+c.what, err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
		if err != nil {
			return pgError("failed to delete candidate", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("candidate not found")
		}
		return nil
	})
}
