package main

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-intake/internal/cv"
	"resume-intake/internal/storage"
)

type fakeStore struct {
	resumes  []*storage.Resume
	gotUser  *uuid.UUID
	gotLimit int
	advanced map[uuid.UUID]string
}

func (f *fakeStore) ListStalledResumes(_ context.Context, uploadedBy *uuid.UUID, limit int) ([]*storage.Resume, error) {
	f.gotUser, f.gotLimit = uploadedBy, limit
	return f.resumes, nil
}

func (f *fakeStore) AdvanceResumeStatus(_ context.Context, id uuid.UUID, status string) error {
	if f.advanced == nil {
		f.advanced = map[uuid.UUID]string{}
	}
	f.advanced[id] = status
	return nil
}

type fakeProcessor struct {
	fail  map[uuid.UUID]bool
	calls []uuid.UUID
}

func (f *fakeProcessor) Process(_ context.Context, _, resumeID uuid.UUID, _ string) (*cv.ProcessResult, error) {
	f.calls = append(f.calls, resumeID)
	if f.fail[resumeID] {
		return nil, errors.New("model down")
	}
	return &cv.ProcessResult{Candidate: &storage.Candidate{ID: uuid.New()}}, nil
}

func stalled(uploader *uuid.UUID) *storage.Resume {
	return &storage.Resume{ID: uuid.New(), FileName: "cv.pdf", RawText: "Jane Doe", UploadedBy: uploader}
}

func TestRunDryRunProcessesNothing(t *testing.T) {
	user := uuid.New()
	store := &fakeStore{resumes: []*storage.Resume{stalled(&user), stalled(&user)}}
	proc := &fakeProcessor{}

	sum, err := run(context.Background(), store, proc, options{dryRun: true, limit: 5, user: &user})
	require.NoError(t, err)

	assert.Equal(t, summary{found: 2}, sum)
	assert.Empty(t, proc.calls)
	assert.Equal(t, &user, store.gotUser)
	assert.Equal(t, 5, store.gotLimit)
}

func TestRunProcessesAndMarksFailures(t *testing.T) {
	user := uuid.New()
	ok, bad, orphan := stalled(&user), stalled(&user), stalled(nil)
	store := &fakeStore{resumes: []*storage.Resume{ok, bad, orphan}}
	proc := &fakeProcessor{fail: map[uuid.UUID]bool{bad.ID: true}}

	sum, err := run(context.Background(), store, proc, options{limit: 10, markFailed: true})
	require.NoError(t, err)

	assert.Equal(t, summary{found: 3, processed: 1, failed: 1}, sum)
	assert.Equal(t, []uuid.UUID{ok.ID, bad.ID}, proc.calls)
	assert.Equal(t, map[uuid.UUID]string{bad.ID: storage.StatusFailed}, store.advanced)
}

func TestRunLeavesFailuresInProcessingByDefault(t *testing.T) {
	user := uuid.New()
	bad := stalled(&user)
	store := &fakeStore{resumes: []*storage.Resume{bad}}
	proc := &fakeProcessor{fail: map[uuid.UUID]bool{bad.ID: true}}

	sum, err := run(context.Background(), store, proc, options{limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, sum.failed)
	assert.Empty(t, store.advanced)
}
