package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"resume-intake/internal/apperr"
	"resume-intake/internal/cv"
	"resume-intake/internal/storage"
)

const defaultMaxUploadBytes = 10 << 20

// CandidateStore is the read and delete side of the candidate tables.
type CandidateStore interface {
	ListCandidates(ctx context.Context) ([]*storage.Candidate, error)
	GetCandidateDetail(ctx context.Context, id uuid.UUID) (*storage.CandidateDetail, error)
	DeleteCandidate(ctx context.Context, id uuid.UUID) error
}

type ResumeUploader interface {
	Upload(ctx context.Context, user uuid.UUID, filename, contentType string, data []byte) (*cv.UploadResult, error)
	Reject(ctx context.Context, user uuid.UUID, err error) error
}

type ResumeProcessor interface {
	Process(ctx context.Context, user, resumeID uuid.UUID, rawText string) (*cv.ProcessResult, error)
}

type StatusReader interface {
	Get(user uuid.UUID) cv.Status
}

// Authenticator resolves the user behind a request's bearer token.
type Authenticator interface {
	FromRequest(r *http.Request) (uuid.UUID, error)
}

type API struct {
	candidates     CandidateStore
	uploader       ResumeUploader
	processor      ResumeProcessor
	statuses       StatusReader
	auth           Authenticator
	maxUploadBytes int64
}

// Deps are the collaborators of the HTTP layer, built once in main.
type Deps struct {
	Candidates     CandidateStore
	Uploader       ResumeUploader
	Processor      ResumeProcessor
	Statuses       StatusReader
	Auth           Authenticator
	MaxUploadBytes int64
}

func NewAPI(deps Deps) *API {
	maxBytes := deps.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &API{
		candidates:     deps.Candidates,
		uploader:       deps.Uploader,
		processor:      deps.Processor,
		statuses:       deps.Statuses,
		auth:           deps.Auth,
		maxUploadBytes: maxBytes,
	}
}

// HealthHandler godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

// writeError reports err as {"error": message} with the status of its kind.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusCode(err), map[string]string{"error": apperr.Message(err)})
}
