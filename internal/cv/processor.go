package cv

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"resume-intake/internal/apperr"
	"resume-intake/internal/storage"
)

// ResumeParser produces the structured record for a resume text.
type ResumeParser interface {
	Extract(ctx context.Context, text string) (*ResumeData, error)
}

type ProcessResult struct {
	Candidate  *storage.Candidate
	ResumeData *ResumeData
}

// Processor runs the model request and the persistence step for a resume
// whose text is already known.
type Processor struct {
	parser ResumeParser
	mapper *Mapper
}

func NewProcessor(parser ResumeParser, mapper *Mapper) *Processor {
	return &Processor{parser: parser, mapper: mapper}
}

func (p *Processor) Process(ctx context.Context, user, resumeID uuid.UUID, rawText string) (*ProcessResult, error) {
	if resumeID == uuid.Nil || strings.TrimSpace(rawText) == "" {
		return nil, apperr.Input("Missing resumeId or rawText")
	}

	data, err := p.parser.Extract(ctx, rawText)
	if err != nil {
		return nil, err
	}

	candidate, err := p.mapper.Persist(ctx, resumeID, user, data)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{Candidate: candidate, ResumeData: data}, nil
}
