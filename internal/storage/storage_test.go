package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-intake/internal/apperr"
)

var candidateCols = []string{"id", "email", "first_name", "last_name", "phone", "location", "linkedin_url",
	"summary", "total_experience_years", "created_at", "updated_at", "created_by"}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewDBFromConn(conn), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func strPtr(s string) *string { return &s }

func candidateRow(id, creator uuid.UUID) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(candidateCols).AddRow(
		id.String(), "jane@x.com", "Jane", "Doe", "", "", "", "", 4, now, now, creator.String(),
	)
}

func TestSaveParsedResumeWritesEverythingInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()
	creator := uuid.New()
	resumeID := uuid.New()
	candidateID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO candidates")).
		WithArgs(sqlmock.AnyArg(), "jane@x.com", "Jane", "Doe", "", "", "", "", 4, creator).
		WillReturnRows(candidateRow(candidateID, creator))
	mock.ExpectExec(q("UPDATE resumes")).
		WithArgs(candidateID, StatusCompleted, resumeID, sqlmock.AnyArg(), creator).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO candidate_skills (id, candidate_id, skill_name, skill_category, proficiency_level) VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)")).
		WithArgs(sqlmock.AnyArg(), candidateID, "Go", "technical", "expert",
			sqlmock.AnyArg(), candidateID, "Leadership", "soft", "intermediate").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("INSERT INTO work_experience")).
		WithArgs(sqlmock.AnyArg(), candidateID, "Acme", "Engineer", "Berlin", "2020-01", nil, true, "Backend").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO education")).
		WithArgs(sqlmock.AnyArg(), candidateID, "TU Berlin", "BSc", "CS", "2012", "2016", "1.7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, err := db.SaveParsedResume(ctx, ParsedResume{
		ResumeID: resumeID,
		Candidate: NewCandidate{
			Email: "jane@x.com", FirstName: "Jane", LastName: "Doe", TotalExperienceYears: 4, CreatedBy: creator,
		},
		Skills: []NewSkill{
			{Name: "Go", Category: "technical", Proficiency: "expert"},
			{Name: "Leadership", Category: "soft", Proficiency: "intermediate"},
		},
		WorkExperience: []NewWorkExperience{
			{CompanyName: "Acme", JobTitle: "Engineer", Location: "Berlin", StartDate: strPtr("2020-01"), IsCurrent: true, Description: "Backend"},
		},
		Education: []NewEducation{
			{InstitutionName: "TU Berlin", Degree: "BSc", FieldOfStudy: "CS", StartDate: strPtr("2012"), EndDate: strPtr("2016"), Grade: "1.7"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, candidateID, c.ID)
	require.NotNil(t, c.CreatedBy)
	assert.Equal(t, creator, *c.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveParsedResumeSkipsEmptyChildLists(t *testing.T) {
	db, mock := newMockDB(t)
	creator := uuid.New()
	candidateID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO candidates")).WillReturnRows(candidateRow(candidateID, creator))
	mock.ExpectExec(q("UPDATE resumes")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := db.SaveParsedResume(context.Background(), ParsedResume{
		ResumeID:  uuid.New(),
		Candidate: NewCandidate{CreatedBy: creator},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveParsedResumeRollsBackWhenAChildInsertFails(t *testing.T) {
	db, mock := newMockDB(t)
	creator := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO candidates")).WillReturnRows(candidateRow(uuid.New(), creator))
	mock.ExpectExec(q("UPDATE resumes")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO candidate_skills")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := db.SaveParsedResume(context.Background(), ParsedResume{
		ResumeID:       uuid.New(),
		Candidate:      NewCandidate{CreatedBy: creator},
		Skills:         []NewSkill{{Name: "Go"}},
		WorkExperience: []NewWorkExperience{{CompanyName: "Acme", JobTitle: "Engineer"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.Equal(t, "failed to save skills", apperr.Message(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveParsedResumeRejectsUnknownOrCompletedResume(t *testing.T) {
	db, mock := newMockDB(t)
	creator := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO candidates")).WillReturnRows(candidateRow(uuid.New(), creator))
	mock.ExpectExec(q("UPDATE resumes")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := db.SaveParsedResume(context.Background(), ParsedResume{
		ResumeID:  uuid.New(),
		Candidate: NewCandidate{CreatedBy: creator},
		Skills:    []NewSkill{{Name: "Go"}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceResumeStatus(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectExec(q("UPDATE resumes SET processing_status = $1 WHERE id = $2 AND processing_status = ANY($3)")).
		WithArgs(StatusProcessing, id, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, db.AdvanceResumeStatus(ctx, id, StatusProcessing))

	// already completed: the guard matches nothing and the current status is reported
	mock.ExpectExec(q("UPDATE resumes SET processing_status")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("SELECT processing_status FROM resumes")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"processing_status"}).AddRow(StatusCompleted))
	err := db.AdvanceResumeStatus(ctx, id, StatusProcessing)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "resume is already completed", apperr.Message(err))

	assert.ErrorIs(t, db.AdvanceResumeStatus(ctx, id, "archived"), apperr.ErrInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateResumeMapsUniqueViolationToConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("INSERT INTO resumes")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := db.CreateResume(context.Background(), NewResume{FileName: "cv.pdf", FilePath: "resumes/u/1-cv.pdf"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCandidatesNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	creator := uuid.New()
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(q("FROM candidates ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(candidateCols).
			AddRow(first.String(), "", "Ann", "", "", "", "", "", 0, now, now, creator.String()).
			AddRow(second.String(), "", "Bob", "", "", "", "", "", 0, now.Add(-time.Hour), now, nil))

	list, err := db.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Nil(t, list[1].CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCandidateDetail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	id := uuid.New()
	creator := uuid.New()
	now := time.Now()

	mock.ExpectQuery(q("FROM candidates WHERE id = $1")).WithArgs(id).WillReturnRows(candidateRow(id, creator))
	mock.ExpectQuery(q("FROM candidate_skills WHERE candidate_id = $1")).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "skill_name", "skill_category", "proficiency_level", "created_at"}).
			AddRow(uuid.NewString(), id.String(), "Go", "technical", "expert", now))
	mock.ExpectQuery(q("FROM work_experience WHERE candidate_id = $1 ORDER BY start_date DESC NULLS LAST")).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "company_name", "job_title", "location", "start_date", "end_date", "is_current", "description", "created_at"}).
			AddRow(uuid.NewString(), id.String(), "Acme", "Lead", "", "2021-05", nil, true, "", now).
			AddRow(uuid.NewString(), id.String(), "Initech", "Dev", "", "2017-02", "2021-04", false, "", now))
	mock.ExpectQuery(q("FROM education WHERE candidate_id = $1 ORDER BY start_date DESC NULLS LAST")).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "candidate_id", "institution_name", "degree", "field_of_study", "start_date", "end_date", "grade", "created_at"}))

	detail, err := db.GetCandidateDetail(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane", detail.Candidate.FirstName)
	require.Len(t, detail.Skills, 1)
	require.Len(t, detail.WorkExperience, 2)
	assert.Equal(t, "2021-05", *detail.WorkExperience[0].StartDate)
	assert.Nil(t, detail.WorkExperience[0].EndDate)
	assert.NotNil(t, detail.Education)
	assert.Empty(t, detail.Education)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCandidate(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM candidate_skills WHERE candidate_id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q("DELETE FROM work_experience WHERE candidate_id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM education WHERE candidate_id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE resumes SET candidate_id = NULL WHERE candidate_id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM candidates WHERE id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, db.DeleteCandidate(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCandidateNotFoundRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectBegin()
	for i := 0; i < 4; i++ {
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(q("DELETE FROM candidates WHERE id = $1")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := db.DeleteCandidate(context.Background(), id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValuesList(t *testing.T) {
	assert.Equal(t, "($1, $2)", valuesList(1, 2))
	assert.Equal(t, "($1, $2, $3), ($4, $5, $6)", valuesList(2, 3))
}

func TestListStalledResumesFiltersByUploader(t *testing.T) {
	db, mock := newMockDB(t)
	user := uuid.New()
	id := uuid.New()
	cols := []string{"id", "candidate_id", "file_name", "file_path", "file_size", "processing_status",
		"raw_text", "uploaded_at", "processed_at", "uploaded_by"}

	mock.ExpectQuery(q("WHERE processing_status = $1 AND raw_text <> '' AND candidate_id IS NULL AND uploaded_by = $2 ORDER BY uploaded_at LIMIT $3")).
		WithArgs(StatusProcessing, user, 50).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			id.String(), nil, "cv.pdf", "resumes/u/1-cv.pdf", 1234, StatusProcessing,
			"Jane Doe", time.Now(), nil, user.String(),
		))

	resumes, err := db.ListStalledResumes(context.Background(), &user, 50)
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, id, resumes[0].ID)
	assert.Nil(t, resumes[0].CandidateID)
	assert.Nil(t, resumes[0].ProcessedAt)
	assert.Equal(t, &user, resumes[0].UploadedBy)
	assert.Equal(t, "Jane Doe", resumes[0].RawText)

	mock.ExpectQuery(q("WHERE processing_status = $1 AND raw_text <> '' AND candidate_id IS NULL ORDER BY uploaded_at LIMIT $2")).
		WithArgs(StatusProcessing, 10).
		WillReturnRows(sqlmock.NewRows(cols))
	resumes, err = db.ListStalledResumes(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, resumes)

	assert.NoError(t, mock.ExpectationsWereMet())
}
