package cv

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-intake/internal/apperr"
	"resume-intake/internal/filestore"
	"resume-intake/internal/notify"
	"resume-intake/internal/storage"
)

type fakeGenerator struct {
	answer string
	err    error
	calls  int
	user   string
	system string
}

func (g *fakeGenerator) Available() bool { return true }

func (g *fakeGenerator) Generate(_ context.Context, system, user string) (string, error) {
	g.calls++
	g.system, g.user = system, user
	return g.answer, g.err
}

type fakeFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	taken   map[string]bool
	deleted []string
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: map[string][]byte{}, taken: map[string]bool{}}
}

func (f *fakeFiles) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; ok || f.taken[key] {
		return filestore.ErrExists
	}
	f.objects[key] = data
	return nil
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// fakeDB keeps resumes and candidates in memory and applies the same status
// rules as the database.
type fakeDB struct {
	mu         sync.Mutex
	resumes    map[uuid.UUID]*storage.Resume
	candidates []storage.ParsedResume
	createErr  error
}

func newFakeDB() *fakeDB {
	return &fakeDB{resumes: map[uuid.UUID]*storage.Resume{}}
}

func (d *fakeDB) CreateResume(_ context.Context, in storage.NewResume) (*storage.Resume, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.createErr != nil {
		return nil, d.createErr
	}
	by := in.UploadedBy
	r := &storage.Resume{
		ID: uuid.New(), FileName: in.FileName, FilePath: in.FilePath, FileSize: in.FileSize,
		ProcessingStatus: storage.StatusPending, UploadedBy: &by, UploadedAt: time.Now(),
	}
	d.resumes[r.ID] = r
	return r, nil
}

func (d *fakeDB) AdvanceResumeStatus(_ context.Context, id uuid.UUID, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.resumes[id]
	if !ok {
		return apperr.NotFound("resume not found")
	}
	if r.ProcessingStatus != storage.StatusPending {
		return apperr.Conflict("resume is already "+r.ProcessingStatus, nil)
	}
	r.ProcessingStatus = status
	return nil
}

func (d *fakeDB) SetResumeRawText(_ context.Context, id uuid.UUID, rawText string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.resumes[id]
	if !ok {
		return apperr.NotFound("resume not found")
	}
	r.RawText = rawText
	return nil
}

func (d *fakeDB) SaveParsedResume(_ context.Context, in storage.ParsedResume) (*storage.Candidate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.resumes[in.ResumeID]
	if !ok || r.ProcessingStatus == storage.StatusCompleted {
		return nil, apperr.NotFound("resume not found or already processed")
	}
	c := &storage.Candidate{
		ID: uuid.New(), Email: in.Candidate.Email, FirstName: in.Candidate.FirstName,
		LastName: in.Candidate.LastName, CreatedBy: &in.Candidate.CreatedBy,
	}
	r.CandidateID = &c.ID
	r.ProcessingStatus = storage.StatusCompleted
	d.candidates = append(d.candidates, in)
	return c, nil
}

func (d *fakeDB) resume(id uuid.UUID) storage.Resume {
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.resumes[id]
}

func (d *fakeDB) onlyResume() storage.Resume {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.resumes {
		return *r
	}
	return storage.Resume{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.StatusEvent
}

func (n *recordingNotifier) Publish(_ context.Context, e notify.StatusEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) states() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		out = append(out, e.State)
	}
	return out
}
