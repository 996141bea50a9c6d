package storage

import (
	"time"

	"github.com/google/uuid"
)

// Processing statuses of a resume. A resume only ever moves forward through them.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Candidate is one processed resume's person. Created once, never merged.
type Candidate struct {
	ID                   uuid.UUID  `json:"id"`
	Email                string     `json:"email"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Phone                string     `json:"phone"`
	Location             string     `json:"location"`
	LinkedInURL          string     `json:"linkedin_url"`
	Summary              string     `json:"summary"`
	TotalExperienceYears int        `json:"total_experience_years"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	CreatedBy            *uuid.UUID `json:"created_by"`
}

// Resume represents one uploaded file and its processing state
type Resume struct {
	ID               uuid.UUID  `json:"id"`
	CandidateID      *uuid.UUID `json:"candidate_id"`
	FileName         string     `json:"file_name"`
	FilePath         string     `json:"file_path"`
	FileSize         int64      `json:"file_size"`
	ProcessingStatus string     `json:"processing_status"`
	RawText          string     `json:"raw_text,omitempty"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ProcessedAt      *time.Time `json:"processed_at"`
	UploadedBy       *uuid.UUID `json:"uploaded_by"`
}

type Skill struct {
	ID               uuid.UUID  `json:"id"`
	CandidateID      *uuid.UUID `json:"candidate_id"`
	SkillName        string     `json:"skill_name"`
	SkillCategory    string     `json:"skill_category"`
	ProficiencyLevel string     `json:"proficiency_level"`
	CreatedAt        time.Time  `json:"created_at"`
}

type WorkExperience struct {
	ID          uuid.UUID  `json:"id"`
	CandidateID *uuid.UUID `json:"candidate_id"`
	CompanyName string     `json:"company_name"`
	JobTitle    string     `json:"job_title"`
	Location    string     `json:"location"`
	StartDate   *string    `json:"start_date"` // YYYY-MM
	EndDate     *string    `json:"end_date"`   // YYYY-MM, nil while current
	IsCurrent   bool       `json:"is_current"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Education struct {
	ID              uuid.UUID  `json:"id"`
	CandidateID     *uuid.UUID `json:"candidate_id"`
	InstitutionName string     `json:"institution_name"`
	Degree          string     `json:"degree"`
	FieldOfStudy    string     `json:"field_of_study"`
	StartDate       *string    `json:"start_date"` // YYYY
	EndDate         *string    `json:"end_date"`   // YYYY
	Grade           string     `json:"grade"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CandidateDetail is a candidate with all of its child rows.
// WorkExperience and Education are ordered by start date, newest first.
type CandidateDetail struct {
	Candidate      Candidate        `json:"candidate"`
	Skills         []Skill          `json:"skills"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
}

// NewResume holds the columns known at upload time
type NewResume struct {
	FileName   string
	FilePath   string
	FileSize   int64
	UploadedBy uuid.UUID
}

type NewCandidate struct {
	Email                string
	FirstName            string
	LastName             string
	Phone                string
	Location             string
	LinkedInURL          string
	Summary              string
	TotalExperienceYears int
	CreatedBy            uuid.UUID
}

type NewSkill struct {
	Name        string
	Category    string
	Proficiency string
}

type NewWorkExperience struct {
	CompanyName string
	JobTitle    string
	Location    string
	StartDate   *string
	EndDate     *string
	IsCurrent   bool
	Description string
}

type NewEducation struct {
	InstitutionName string
	Degree          string
	FieldOfStudy    string
	StartDate       *string
	EndDate         *string
	Grade           string
}

// ParsedResume is everything written by SaveParsedResume in one transaction.
type ParsedResume struct {
	ResumeID       uuid.UUID
	Candidate      NewCandidate
	Skills         []NewSkill
	WorkExperience []NewWorkExperience
	Education      []NewEducation
}
