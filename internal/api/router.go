package api

import (
	"log"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"resume-intake/internal/auth"
)

const (
	corsAllowHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowMethods = "POST, GET, DELETE, OPTIONS"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.HandleFunc("GET /health", a.HealthHandler)

	// Resume intake
	mux.HandleFunc("POST /api/resumes/upload", a.requireUser(a.UploadResumeHandler))
	mux.HandleFunc("GET /api/resumes/status", a.requireUser(a.ResumeStatusHandler))
	// checks its input before the caller, so it authenticates on its own
	mux.HandleFunc("POST /api/process-resume", a.ProcessResumeHandler)

	// Candidates
	mux.HandleFunc("GET /api/candidates", a.requireUser(a.ListCandidatesHandler))
	mux.HandleFunc("GET /api/candidates/{id}", a.requireUser(a.GetCandidateHandler))
	mux.HandleFunc("DELETE /api/candidates/{id}", a.requireUser(a.DeleteCandidateHandler))

	return logRequests(withCORS(mux))
}

// withCORS allows browser clients from any origin and answers preflight
// requests before routing.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireUser rejects requests without a valid bearer token and stores the
// caller's id in the request context.
func (a *API) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.auth.FromRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r.WithContext(auth.WithUser(r.Context(), user)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path != "/health" {
			log.Printf("[HTTP] %s %s %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}
