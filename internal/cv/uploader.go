package cv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-intake/internal/apperr"
	"resume-intake/internal/filestore"
	"resume-intake/internal/notify"
	"resume-intake/internal/storage"
)

const maxStoredNameLen = 100

// ResumeStore is the part of the database the uploader writes to.
type ResumeStore interface {
	CreateResume(ctx context.Context, in storage.NewResume) (*storage.Resume, error)
	AdvanceResumeStatus(ctx context.Context, id uuid.UUID, status string) error
	SetResumeRawText(ctx context.Context, id uuid.UUID, rawText string) error
}

type ResumeProcessor interface {
	Process(ctx context.Context, user, resumeID uuid.UUID, rawText string) (*ProcessResult, error)
}

type UploadResult struct {
	ResumeID   uuid.UUID
	Candidate  *storage.Candidate
	ResumeData *ResumeData
	Status     Status
}

// Uploader runs a resume upload end to end: store the file, record the resume,
// extract its text, ask the model and persist the candidate. Each step is
// reported to the tracker and the notifier.
type Uploader struct {
	files      filestore.Store
	resumes    ResumeStore
	processor  ResumeProcessor
	tracker    *Tracker
	notifier   notify.Notifier
	resetDelay time.Duration
	now        func() time.Time
}

func NewUploader(files filestore.Store, resumes ResumeStore, processor ResumeProcessor,
	tracker *Tracker, notifier notify.Notifier, resetDelay time.Duration) *Uploader {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Uploader{
		files:      files,
		resumes:    resumes,
		processor:  processor,
		tracker:    tracker,
		notifier:   notifier,
		resetDelay: resetDelay,
		now:        time.Now,
	}
}

func (u *Uploader) Upload(ctx context.Context, user uuid.UUID, filename, contentType string, data []byte) (*UploadResult, error) {
	if err := ValidatePDF(filename, contentType, data); err != nil {
		return nil, u.fail(ctx, user, nil, err)
	}

	u.report(ctx, user, Status{State: StateUploading, Message: "Uploading resume..."})
	filePath, err := u.storeFile(ctx, user, filename, data)
	if err != nil {
		return nil, u.fail(ctx, user, nil, err)
	}

	resume, err := u.resumes.CreateResume(ctx, storage.NewResume{
		FileName:   path.Base(strings.ReplaceAll(filename, `\`, "/")),
		FilePath:   filePath,
		FileSize:   int64(len(data)),
		UploadedBy: user,
	})
	if err != nil {
		if delErr := u.files.Delete(ctx, filePath); delErr != nil {
			log.Printf("[Upload] failed to remove orphaned file %s: %v", filePath, delErr)
		}
		return nil, u.fail(ctx, user, nil, err)
	}
	resumeID := resume.ID

	u.report(ctx, user, Status{State: StateProcessing, Message: "Extracting text from PDF...", ResumeID: &resumeID})
	if err := u.resumes.AdvanceResumeStatus(ctx, resumeID, storage.StatusProcessing); err != nil {
		return nil, u.fail(ctx, user, &resumeID, err)
	}

	extracted, err := ExtractPDFText(data)
	if err != nil {
		return nil, u.fail(ctx, user, &resumeID, err)
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return nil, u.fail(ctx, user, &resumeID, apperr.Extraction(errors.New("no text found in document")))
	}
	log.Printf("[Upload] Extracted %d characters from %d pages of %s", len(extracted.Text), extracted.PageCount, filePath)

	if err := u.resumes.SetResumeRawText(ctx, resumeID, extracted.Text); err != nil {
		return nil, u.fail(ctx, user, &resumeID, err)
	}

	u.report(ctx, user, Status{State: StateProcessing, Message: "Parsing resume data...", ResumeID: &resumeID})
	res, err := u.processor.Process(ctx, user, resumeID, extracted.Text)
	if err != nil {
		return nil, u.fail(ctx, user, &resumeID, err)
	}

	candidateID := res.Candidate.ID
	status := Status{
		State:       StateSuccess,
		Message:     "Resume processed successfully!",
		ResumeID:    &resumeID,
		CandidateID: &candidateID,
	}
	u.report(ctx, user, status)
	u.tracker.ResetAfter(user, u.resetDelay)

	return &UploadResult{
		ResumeID:   resumeID,
		Candidate:  res.Candidate,
		ResumeData: res.ResumeData,
		Status:     status,
	}, nil
}

// storeFile writes data under resumes/{user}/{millis}-{name}. When that path is
// taken it retries once with a random disambiguator, then gives up.
func (u *Uploader) storeFile(ctx context.Context, user uuid.UUID, filename string, data []byte) (string, error) {
	name := sanitizeFilename(filename)
	millis := u.now().UnixMilli()

	candidates := []string{
		fmt.Sprintf("resumes/%s/%d-%s", user, millis, name),
		fmt.Sprintf("resumes/%s/%d-%s-%s", user, millis, uuid.NewString()[:8], name),
	}
	var err error
	for _, key := range candidates {
		err = u.files.Put(ctx, key, data, pdfMimeType)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, filestore.ErrExists) {
			return "", apperr.RemoteService("Failed to upload resume", err)
		}
		log.Printf("[Upload] storage path %s already taken", key)
	}
	return "", apperr.Conflict("Storage path already in use, please retry", err)
}

func (u *Uploader) report(ctx context.Context, user uuid.UUID, status Status) {
	status.UpdatedAt = u.now()
	u.tracker.Set(user, status)

	event := notify.StatusEvent{
		UserID:      user,
		ResumeID:    status.ResumeID,
		CandidateID: status.CandidateID,
		State:       status.State,
		Message:     status.Message,
		At:          status.UpdatedAt,
	}
	if err := u.notifier.Publish(ctx, event); err != nil {
		log.Printf("[Upload] failed to publish %s status for user %s: %v", status.State, user, err)
	}
}

// Reject records an upload that failed before its file could be read, so the
// status endpoint reports it like any other failed upload. It returns err.
func (u *Uploader) Reject(ctx context.Context, user uuid.UUID, err error) error {
	return u.fail(ctx, user, nil, err)
}

func (u *Uploader) fail(ctx context.Context, user uuid.UUID, resumeID *uuid.UUID, err error) error {
	msg := apperr.Message(err)
	if msg == "" {
		msg = "Failed to process resume"
	}
	log.Printf("[Upload] Error processing resume for user %s: %v", user, err)
	u.report(ctx, user, Status{State: StateError, Message: msg, ResumeID: resumeID})
	return err
}

// sanitizeFilename keeps the base name of filename with anything outside
// [A-Za-z0-9._-] replaced, so it is safe as an object key segment.
func sanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := strings.TrimLeft(b.String(), ".")
	if name == "" || name == "_" {
		name = "resume.pdf"
	}
	if len(name) > maxStoredNameLen {
		name = name[len(name)-maxStoredNameLen:]
	}
	return name
}
