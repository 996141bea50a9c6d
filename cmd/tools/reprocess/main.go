// Command reprocess runs the LLM step again for resumes that were left in
// processing after their text was extracted, for example when the model was
// unreachable.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"

	"resume-intake/internal/config"
	"resume-intake/internal/cv"
	"resume-intake/internal/llm"
	"resume-intake/internal/storage"
)

type stalledStore interface {
	ListStalledResumes(ctx context.Context, uploadedBy *uuid.UUID, limit int) ([]*storage.Resume, error)
	AdvanceResumeStatus(ctx context.Context, id uuid.UUID, status string) error
}

type resumeProcessor interface {
	Process(ctx context.Context, user, resumeID uuid.UUID, rawText string) (*cv.ProcessResult, error)
}

type options struct {
	dryRun     bool
	limit      int
	user       *uuid.UUID
	markFailed bool
	pause      time.Duration
}

type summary struct {
	found, processed, failed int
}

func main() {
	var (
		dryRun     bool
		limit      int
		userFlag   string
		markFailed bool
	)
	flag.BoolVar(&dryRun, "dry-run", true, "If true, only list the resumes that would be reprocessed")
	flag.IntVar(&limit, "limit", 200, "Max number of resumes to process in one run")
	flag.StringVar(&userFlag, "user", "", "Only reprocess resumes uploaded by this user id")
	flag.BoolVar(&markFailed, "mark-failed", false, "Mark resumes whose reprocessing fails as failed")
	flag.Parse()

	opts := options{dryRun: dryRun, limit: limit, markFailed: markFailed, pause: 300 * time.Millisecond}
	if userFlag != "" {
		id, err := uuid.Parse(userFlag)
		if err != nil {
			log.Fatalf("invalid -user: %v", err)
		}
		opts.user = &id
	}

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	log.Printf("Connecting to DB...")
	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	log.Printf("Creating LLM service (provider=%s, model=%s)", cfg.LLMProvider, cfg.LLMModel)
	llmSvc, err := llm.NewService(ctx, llm.Options{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		Timeout:  cfg.LLMTimeout,
	})
	if err != nil {
		log.Fatalf("failed to create LLM service: %v", err)
	}
	if !dryRun && !llmSvc.Available() {
		log.Fatal("LLM_PROVIDER must be set (e.g. openai|groq|ollama|gemini) and configured")
	}

	processor := cv.NewProcessor(cv.NewExtractor(llmSvc), cv.NewMapper(db))
	sum, err := run(ctx, db, processor, opts)
	if err != nil {
		log.Fatalf("reprocess failed: %v", err)
	}
	log.Printf("Done: %d found, %d processed, %d failed", sum.found, sum.processed, sum.failed)
}

func run(ctx context.Context, store stalledStore, processor resumeProcessor, opts options) (summary, error) {
	var sum summary

	resumes, err := store.ListStalledResumes(ctx, opts.user, opts.limit)
	if err != nil {
		return sum, err
	}
	sum.found = len(resumes)
	log.Printf("Found %d stalled resumes (limit %d)", len(resumes), opts.limit)

	for i, r := range resumes {
		if r.UploadedBy == nil {
			log.Printf("Resume %s has no uploader, skipping", r.ID)
			continue
		}
		if opts.dryRun {
			log.Printf("[dry-run] Would reprocess resume %s (%s, %d characters)", r.ID, r.FileName, len(r.RawText))
			continue
		}

		res, err := processor.Process(ctx, *r.UploadedBy, r.ID, r.RawText)
		if err != nil {
			sum.failed++
			log.Printf("Resume %s failed: %v", r.ID, err)
			if opts.markFailed {
				if err := store.AdvanceResumeStatus(ctx, r.ID, storage.StatusFailed); err != nil {
					log.Printf("failed to mark resume %s as failed: %v", r.ID, err)
				}
			}
			continue
		}
		sum.processed++
		log.Printf("Resume %s -> candidate %s", r.ID, res.Candidate.ID)

		// small pause to stay under provider rate limits
		if opts.pause > 0 && i < len(resumes)-1 {
			time.Sleep(opts.pause)
		}
	}
	return sum, nil
}
