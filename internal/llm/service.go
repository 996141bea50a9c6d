package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	httpclient "resume-intake/pkg/http"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
	ProviderNone   Provider = "none"
)

const (
	openAIURL = "https://api.openai.com/v1/chat/completions"
	groqURL   = "https://api.groq.com/openai/v1/chat/completions"
	ollamaURL = "http://localhost:11434"

	temperature = 0.1
)

// ErrNotConfigured is returned by Generate when no usable provider is set up.
var ErrNotConfigured = errors.New("LLM provider not configured")

// Options selects and configures a provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	Timeout  time.Duration
	// BaseURL overrides the endpoint of the HTTP providers. For ollama it is
	// the server root, for openai and groq the full chat completions URL.
	BaseURL string
}

// geminiModels is the part of *genai.Models the service uses.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service sends one system instruction plus one user message to the configured
// model and returns the raw JSON text it answers with. It never retries.
type Service struct {
	provider Provider
	apiKey   string
	model    string
	baseURL  string
	timeout  time.Duration
	http     *httpclient.Client
	gemini   geminiModels
}

func NewService(ctx context.Context, opts Options) (*Service, error) {
	s := &Service{
		provider: Provider(strings.ToLower(opts.Provider)),
		apiKey:   opts.APIKey,
		model:    opts.Model,
		baseURL:  opts.BaseURL,
		timeout:  opts.Timeout,
	}
	if s.timeout <= 0 {
		s.timeout = 2 * time.Minute
	}
	s.http = httpclient.NewClient(s.timeout)

	switch s.provider {
	case ProviderOpenAI, ProviderGroq:
		if s.baseURL == "" {
			s.baseURL = openAIURL
			if s.provider == ProviderGroq {
				s.baseURL = groqURL
			}
		}
	case ProviderOllama:
		if s.baseURL == "" {
			s.baseURL = ollamaURL
		}
	case ProviderGemini:
		if s.apiKey == "" {
			break
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		s.gemini = client.Models
	case ProviderNone, "":
		s.provider = ProviderNone
	default:
		return nil, fmt.Errorf("unknown provider: %s", opts.Provider)
	}
	return s, nil
}

// Available reports whether Generate can reach a model at all.
func (s *Service) Available() bool {
	switch s.provider {
	case ProviderOpenAI, ProviderGroq:
		return s.apiKey != ""
	case ProviderOllama:
		return true
	case ProviderGemini:
		return s.gemini != nil
	default:
		return false
	}
}

func (s *Service) Provider() Provider {
	return s.provider
}

func (s *Service) Model() string {
	return s.model
}

// Generate asks the model for a JSON object answer to user, steered by system.
func (s *Service) Generate(ctx context.Context, system, user string) (string, error) {
	if !s.Available() {
		return "", ErrNotConfigured
	}

	start := time.Now()
	var (
		response string
		err      error
	)
	switch s.provider {
	case ProviderOpenAI, ProviderGroq:
		response, err = s.callChatCompletions(ctx, system, user)
	case ProviderOllama:
		response, err = s.callOllama(ctx, system, user)
	case ProviderGemini:
		response, err = s.callGemini(ctx, system, user)
	}
	if err != nil {
		log.Printf("[LLM] %s request failed after %v: %v", s.provider, time.Since(start), err)
		return "", err
	}

	log.Printf("[LLM] %s/%s answered in %v (%d characters)", s.provider, s.model, time.Since(start), len(response))
	return response, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// callChatCompletions serves both OpenAI and Groq, which share the wire format.
func (s *Service) callChatCompletions(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	var result chatResponse
	headers := map[string]string{"Authorization": "Bearer " + s.apiKey}
	if err := s.http.PostJSON(ctx, s.baseURL, headers, req, &result); err != nil {
		return "", fmt.Errorf("%s API error: %w", s.provider, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("%s error: %s", s.provider, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", s.provider)
	}
	return result.Choices[0].Message.Content, nil
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format"`
	Options map[string]any `json:"options"`
}

func (s *Service) callOllama(ctx context.Context, system, user string) (string, error) {
	req := ollamaRequest{
		Model:   s.model,
		System:  system,
		Prompt:  user,
		Stream:  false,
		Format:  "json",
		Options: map[string]any{"temperature": temperature},
	}

	var result struct {
		Response string `json:"response"`
		Error    string `json:"error"`
	}
	url := strings.TrimRight(s.baseURL, "/") + "/api/generate"
	if err := s.http.PostJSON(ctx, url, nil, req, &result); err != nil {
		return "", fmt.Errorf("Ollama connection failed (is Ollama running?): %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("Ollama error: %s", result.Error)
	}
	return result.Response, nil
}

func (s *Service) callGemini(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.gemini.GenerateContent(ctx, s.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](temperature),
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("no response from gemini")
	}
	return text, nil
}
