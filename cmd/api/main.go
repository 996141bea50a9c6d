package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "resume-intake/docs" // Swagger docs
	"resume-intake/internal/api"
	"resume-intake/internal/auth"
	"resume-intake/internal/config"
	"resume-intake/internal/cv"
	"resume-intake/internal/filestore"
	"resume-intake/internal/llm"
	"resume-intake/internal/notify"
	"resume-intake/internal/storage"
)

// @title Resume Intake API
// @version 1.0
// @description Uploads PDF resumes, parses them with an LLM and stores the resulting candidates

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	log.Println("Connecting to database...")
	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open:", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("db migrate:", err)
	}
	log.Println("Database connected successfully!")

	llmSvc, err := llm.NewService(ctx, llm.Options{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		Timeout:  cfg.LLMTimeout,
		BaseURL:  ollamaBaseURL(cfg),
	})
	if err != nil {
		log.Fatal("llm:", err)
	}
	if !llmSvc.Available() {
		log.Printf("Warning: LLM provider %q is not usable, resume parsing will fail", cfg.LLMProvider)
	}

	files, err := filestore.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("file storage:", err)
	}

	notifier, err := notify.New(cfg.RabbitMQURL)
	if err != nil {
		log.Printf("Warning: status events disabled: %v", err)
		notifier = notify.Nop{}
	}
	defer notifier.Close()

	tracker := cv.NewTracker()
	processor := cv.NewProcessor(cv.NewExtractor(llmSvc), cv.NewMapper(db))
	uploader := cv.NewUploader(files, db, processor, tracker, notifier, cfg.StatusResetDelay)

	apiSrv := api.NewAPI(api.Deps{
		Candidates:     db,
		Uploader:       uploader,
		Processor:      processor,
		Statuses:       tracker,
		Auth:           auth.NewVerifier(cfg.JWTSecret),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout + time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s (llm: %s/%s, storage: %s)\n",
		cfg.Port, llmSvc.Provider(), llmSvc.Model(), cfg.Storage.Type)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}

func ollamaBaseURL(cfg *config.Config) string {
	if cfg.LLMProvider == string(llm.ProviderOllama) {
		return cfg.OllamaURL
	}
	return ""
}
