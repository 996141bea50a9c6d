package cv

import (
	"context"
	"log"
	"time"

	"resume-intake/internal/apperr"
	"resume-intake/internal/llm"
)

const parseFailedMessage = "Failed to parse resume with AI."

const systemPrompt = `You are an expert HR recruitment assistant. Extract the key facts from the raw text of a resume.
Answer with a single JSON object and nothing else: no markdown, no explanation.
The object must have exactly this shape:
{
  "firstName": string,
  "lastName": string,
  "email": string,
  "phone": string,
  "location": string,
  "linkedinUrl": string,
  "summary": string,
  "totalExperienceYears": number,
  "skills": [
    {
      "skillName": string,
      "skillCategory": "technical" | "soft",
      "proficiencyLevel": "beginner" | "intermediate" | "expert"
    }
  ],
  "workExperience": [
    {
      "companyName": string,
      "jobTitle": string,
      "location": string,
      "startDate": "YYYY-MM" or null,
      "endDate": "YYYY-MM" or null,
      "isCurrent": boolean,
      "description": string
    }
  ],
  "education": [
    {
      "institutionName": string,
      "degree": string,
      "fieldOfStudy": string,
      "startDate": "YYYY" or null,
      "endDate": "YYYY" or null,
      "grade": string
    }
  ]
}
Use "" for unknown text, 0 for unknown numbers and [] for empty lists.
For the position the person currently holds set isCurrent to true and endDate to null.`

// Generator is the language model the extractor talks to.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, system, user string) (string, error)
}

// Extractor turns resume text into a ResumeData with one model request.
type Extractor struct {
	llm Generator
}

func NewExtractor(g Generator) *Extractor {
	return &Extractor{llm: g}
}

// Extract never retries. Any model failure or an answer that is not a JSON
// object is reported as a remote service error.
func (e *Extractor) Extract(ctx context.Context, text string) (*ResumeData, error) {
	if e.llm == nil || !e.llm.Available() {
		return nil, apperr.RemoteService(parseFailedMessage, llm.ErrNotConfigured)
	}

	log.Printf("[Extractor] Extracting resume data using LLM (%d characters)...", len(text))
	start := time.Now()
	answer, err := e.llm.Generate(ctx, systemPrompt, "Here is the resume text:\n\n"+text)
	if err != nil {
		return nil, apperr.RemoteService(parseFailedMessage, err)
	}

	data, err := DecodeResumeData(answer)
	if err != nil {
		return nil, apperr.RemoteService(parseFailedMessage, err)
	}

	log.Printf("[Extractor] Extracted %d skills, %d positions, %d education entries in %v",
		len(data.Skills), len(data.WorkExperience), len(data.Education), time.Since(start))
	return data, nil
}
