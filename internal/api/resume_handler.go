package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"resume-intake/internal/apperr"
	"resume-intake/internal/auth"
	"resume-intake/internal/cv"
	"resume-intake/internal/storage"
)

type uploadResponse struct {
	Success     bool               `json:"success"`
	ResumeID    uuid.UUID          `json:"resumeId"`
	CandidateID uuid.UUID          `json:"candidateId"`
	Status      cv.Status          `json:"status"`
	Candidate   *storage.Candidate `json:"candidate"`
	ResumeData  *cv.ResumeData     `json:"resumeData"`
}

type processRequest struct {
	ResumeID string `json:"resumeId"`
	RawText  string `json:"rawText"`
}

type processResponse struct {
	Success    bool               `json:"success"`
	Candidate  *storage.Candidate `json:"candidate"`
	ResumeData *cv.ResumeData     `json:"resumeData"`
}

// UploadResumeHandler godoc
// @Summary Upload a resume
// @Description Stores a PDF resume, extracts its text, parses it with the configured LLM and creates a candidate
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Resume (PDF)"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/resumes/upload [post]
func (a *API) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if err := r.ParseMultipartForm(a.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, a.uploader.Reject(r.Context(), user, apperr.Input("File is too large")))
			return
		}
		writeError(w, a.uploader.Reject(r.Context(), user, apperr.Input("Please upload a PDF file")))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, a.uploader.Reject(r.Context(), user, apperr.Input("Please upload a PDF file")))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, a.uploader.Reject(r.Context(), user, apperr.Input("Please upload a PDF file")))
		return
	}

	res, err := a.uploader.Upload(r.Context(), user, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:     true,
		ResumeID:    res.ResumeID,
		CandidateID: res.Candidate.ID,
		Status:      res.Status,
		Candidate:   res.Candidate,
		ResumeData:  res.ResumeData,
	})
}

// ResumeStatusHandler godoc
// @Summary Current upload status
// @Description Returns the status of the caller's latest upload, idle when nothing is in flight
// @Tags resumes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cv.Status
// @Failure 401 {object} map[string]string
// @Router /api/resumes/status [get]
func (a *API) ResumeStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	writeJSON(w, http.StatusOK, a.statuses.Get(user))
}

// ProcessResumeHandler godoc
// @Summary Parse resume text
// @Description Runs the LLM extraction for a resume whose raw text is already known and creates the candidate
// @Tags resumes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body processRequest true "Resume id and raw text"
// @Success 200 {object} processResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/process-resume [post]
func (a *API) ProcessResumeHandler(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Input("Missing resumeId or rawText"))
		return
	}
	resumeID, err := uuid.Parse(strings.TrimSpace(req.ResumeID))
	if err != nil || resumeID == uuid.Nil || strings.TrimSpace(req.RawText) == "" {
		writeError(w, apperr.Input("Missing resumeId or rawText"))
		return
	}

	user, err := a.auth.FromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := a.processor.Process(r.Context(), user, resumeID, req.RawText)
	if err != nil {
		log.Printf("[API] process-resume failed for resume %s: %v", resumeID, err)
		status := apperr.StatusCode(err)
		if status != http.StatusBadRequest && status != http.StatusUnauthorized {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{"error": apperr.Message(err)})
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		Success:    true,
		Candidate:  res.Candidate,
		ResumeData: res.ResumeData,
	})
}
