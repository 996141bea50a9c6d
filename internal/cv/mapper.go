package cv

import (
	"context"

	"github.com/google/uuid"

	"resume-intake/internal/storage"
)

// CandidateWriter persists a parsed resume as one unit of work.
type CandidateWriter interface {
	SaveParsedResume(ctx context.Context, in storage.ParsedResume) (*storage.Candidate, error)
}

// Mapper writes a ResumeData as a new candidate with its skills, work
// experience and education, and marks the originating resume completed.
type Mapper struct {
	store CandidateWriter
}

func NewMapper(store CandidateWriter) *Mapper {
	return &Mapper{store: store}
}

// Persist always creates a new candidate, even for a person seen before.
func (m *Mapper) Persist(ctx context.Context, resumeID, createdBy uuid.UUID, data *ResumeData) (*storage.Candidate, error) {
	return m.store.SaveParsedResume(ctx, toParsedResume(resumeID, createdBy, data))
}

func toParsedResume(resumeID, createdBy uuid.UUID, data *ResumeData) storage.ParsedResume {
	in := storage.ParsedResume{
		ResumeID: resumeID,
		Candidate: storage.NewCandidate{
			Email:                data.Email,
			FirstName:            data.FirstName,
			LastName:             data.LastName,
			Phone:                data.Phone,
			Location:             data.Location,
			LinkedInURL:          data.LinkedInURL,
			Summary:              data.Summary,
			TotalExperienceYears: data.TotalExperienceYears,
			CreatedBy:            createdBy,
		},
	}

	for _, s := range data.Skills {
		in.Skills = append(in.Skills, storage.NewSkill{
			Name:        s.SkillName,
			Category:    s.SkillCategory,
			Proficiency: s.ProficiencyLevel,
		})
	}
	for _, w := range data.WorkExperience {
		in.WorkExperience = append(in.WorkExperience, storage.NewWorkExperience{
			CompanyName: w.CompanyName,
			JobTitle:    w.JobTitle,
			Location:    w.Location,
			StartDate:   w.StartDate,
			EndDate:     w.EndDate,
			IsCurrent:   w.IsCurrent,
			Description: w.Description,
		})
	}
	for _, e := range data.Education {
		in.Education = append(in.Education, storage.NewEducation{
			InstitutionName: e.InstitutionName,
			Degree:          e.Degree,
			FieldOfStudy:    e.FieldOfStudy,
			StartDate:       e.StartDate,
			EndDate:         e.EndDate,
			Grade:           e.Grade,
		})
	}
	return in
}
