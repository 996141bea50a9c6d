package api

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"resume-intake/internal/apperr"
	"resume-intake/internal/storage"
)

// ListCandidatesHandler godoc
// @Summary List candidates
// @Description Returns all candidates, newest first
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} storage.Candidate
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/candidates [get]
func (a *API) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	candidates, err := a.candidates.ListCandidates(r.Context())
	if err != nil {
		log.Printf("[API] Error fetching candidates: %v", err)
		writeError(w, err)
		return
	}
	if candidates == nil {
		candidates = []*storage.Candidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}

// GetCandidateHandler godoc
// @Summary Candidate detail
// @Description Returns a candidate with skills, work experience and education
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200 {object} storage.CandidateDetail
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}

	detail, err := a.candidates.GetCandidateDetail(r.Context(), id)
	if err != nil {
		log.Printf("[API] Error fetching candidate %s: %v", id, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteCandidateHandler godoc
// @Summary Delete a candidate
// @Description Deletes a candidate and its skills, work experience and education
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/candidates/{id} [delete]
func (a *API) DeleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}

	if err := a.candidates.DeleteCandidate(r.Context(), id); err != nil {
		log.Printf("[API] Error deleting candidate %s: %v", id, err)
		writeError(w, err)
		return
	}
	log.Printf("[API] Candidate %s deleted", id)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func candidateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, apperr.Input("Invalid candidate id"))
		return uuid.Nil, false
	}
	return id, true
}
