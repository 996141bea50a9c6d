package cv

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ResumeData is the validated structured record built from a model answer.
// Every field is always present: missing values become "", 0, false, nil dates
// or empty lists.
type ResumeData struct {
	FirstName            string               `json:"firstName"`
	LastName             string               `json:"lastName"`
	Email                string               `json:"email"`
	Phone                string               `json:"phone"`
	Location             string               `json:"location"`
	LinkedInURL          string               `json:"linkedinUrl"`
	Summary              string               `json:"summary"`
	TotalExperienceYears int                  `json:"totalExperienceYears"`
	Skills               []SkillData          `json:"skills"`
	WorkExperience       []WorkExperienceData `json:"workExperience"`
	Education            []EducationData      `json:"education"`
}

type SkillData struct {
	SkillName        string `json:"skillName"`
	SkillCategory    string `json:"skillCategory"`    // technical, soft
	ProficiencyLevel string `json:"proficiencyLevel"` // beginner, intermediate, expert
}

type WorkExperienceData struct {
	CompanyName string  `json:"companyName"`
	JobTitle    string  `json:"jobTitle"`
	Location    string  `json:"location"`
	StartDate   *string `json:"startDate"` // YYYY-MM
	EndDate     *string `json:"endDate"`   // YYYY-MM
	IsCurrent   bool    `json:"isCurrent"`
	Description string  `json:"description"`
}

type EducationData struct {
	InstitutionName string  `json:"institutionName"`
	Degree          string  `json:"degree"`
	FieldOfStudy    string  `json:"fieldOfStudy"`
	StartDate       *string `json:"startDate"` // YYYY
	EndDate         *string `json:"endDate"`   // YYYY
	Grade           string  `json:"grade"`
}

// resumeSchema describes the answer we ask the model for. It is only used to
// report deviations; decoding stays lenient.
const resumeSchema = `{
  "type": "object",
  "properties": {
    "firstName": {"type": "string"},
    "lastName": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "location": {"type": "string"},
    "linkedinUrl": {"type": "string"},
    "summary": {"type": "string"},
    "totalExperienceYears": {"type": "number", "minimum": 0},
    "skills": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["skillName"],
        "properties": {
          "skillName": {"type": "string"},
          "skillCategory": {"enum": ["technical", "soft"]},
          "proficiencyLevel": {"enum": ["beginner", "intermediate", "expert"]}
        }
      }
    },
    "workExperience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "companyName": {"type": "string"},
          "jobTitle": {"type": "string"},
          "location": {"type": "string"},
          "startDate": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}$"},
          "endDate": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}$"},
          "isCurrent": {"type": "boolean"},
          "description": {"type": "string"}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "institutionName": {"type": "string"},
          "degree": {"type": "string"},
          "fieldOfStudy": {"type": "string"},
          "startDate": {"type": ["string", "null"], "pattern": "^[0-9]{4}$"},
          "endDate": {"type": ["string", "null"], "pattern": "^[0-9]{4}$"},
          "grade": {"type": "string"}
        }
      }
    }
  }
}`

var compiledResumeSchema = jsonschema.MustCompileString("resume.json", resumeSchema)

// CleanJSON strips markdown code fences some models wrap their JSON answer in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// DecodeResumeData turns an untrusted model answer into a ResumeData.
// Only answers that are not a JSON object at all are rejected.
func DecodeResumeData(answer string) (*ResumeData, error) {
	dec := json.NewDecoder(strings.NewReader(CleanJSON(answer)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("model answer is not valid JSON: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("model answer is not a JSON object")
	}

	reportSchemaViolations(obj)
	return buildResumeData(obj), nil
}

func reportSchemaViolations(obj map[string]any) {
	err := compiledResumeSchema.Validate(obj)
	if err == nil {
		return
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		log.Printf("[Extractor] schema check failed: %v", err)
		return
	}
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			log.Printf("[Extractor] model answer deviates at %q: %s", e.InstanceLocation, e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
}

func buildResumeData(obj map[string]any) *ResumeData {
	data := &ResumeData{
		FirstName:            str(obj["firstName"]),
		LastName:             str(obj["lastName"]),
		Email:                str(obj["email"]),
		Phone:                str(obj["phone"]),
		Location:             str(obj["location"]),
		LinkedInURL:          str(obj["linkedinUrl"]),
		Summary:              str(obj["summary"]),
		TotalExperienceYears: years(obj["totalExperienceYears"]),
		Skills:               []SkillData{},
		WorkExperience:       []WorkExperienceData{},
		Education:            []EducationData{},
	}

	for _, item := range objects(obj["skills"]) {
		data.Skills = append(data.Skills, SkillData{
			SkillName:        str(item["skillName"]),
			SkillCategory:    strings.ToLower(str(item["skillCategory"])),
			ProficiencyLevel: strings.ToLower(str(item["proficiencyLevel"])),
		})
	}

	for _, item := range objects(obj["workExperience"]) {
		w := WorkExperienceData{
			CompanyName: str(item["companyName"]),
			JobTitle:    str(item["jobTitle"]),
			Location:    str(item["location"]),
			IsCurrent:   boolean(item["isCurrent"]),
			Description: str(item["description"]),
		}
		var ongoing bool
		w.StartDate, _ = monthDate(item["startDate"])
		w.EndDate, ongoing = monthDate(item["endDate"])
		if ongoing {
			w.IsCurrent = true
		}
		if w.IsCurrent {
			w.EndDate = nil
		}
		data.WorkExperience = append(data.WorkExperience, w)
	}

	for _, item := range objects(obj["education"]) {
		data.Education = append(data.Education, EducationData{
			InstitutionName: str(item["institutionName"]),
			Degree:          str(item["degree"]),
			FieldOfStudy:    str(item["fieldOfStudy"]),
			StartDate:       yearDate(item["startDate"]),
			EndDate:         yearDate(item["endDate"]),
			Grade:           str(item["grade"]),
		})
	}

	return data
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(stripControl(t))
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// years accepts numbers and numeric strings, truncating fractions and
// clamping negatives to zero.
func years(v any) int {
	var f float64
	switch t := v.(type) {
	case json.Number:
		f, _ = t.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func boolean(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true
		}
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	}
	return false
}

func objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	res := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			res = append(res, m)
		}
	}
	return res
}

var (
	yearMonthRe = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})(?:[-/.]\d{1,2})?$`)
	monthYearRe = regexp.MustCompile(`^(\d{1,2})[-/.](\d{4})$`)
	yearRe      = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

	monthLayouts = []string{"Jan 2006", "January 2006", "Jan. 2006", "Jan, 2006", "January, 2006"}
)

var ongoingWords = map[string]bool{"present": true, "current": true, "now": true, "ongoing": true, "today": true}

// monthDate normalizes a work date to YYYY-MM. A bare year becomes January of
// that year. The second result reports words like "Present" that mean the
// position is still held.
func monthDate(v any) (*string, bool) {
	s := str(v)
	if s == "" {
		return nil, false
	}
	if ongoingWords[strings.ToLower(s)] {
		return nil, true
	}

	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		return formatMonth(m[1], m[2]), false
	}
	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		return formatMonth(m[2], m[1]), false
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01")
			return &out, false
		}
	}
	if m := yearRe.FindString(s); m != "" && len(s) == 4 {
		out := m + "-01"
		return &out, false
	}
	return nil, false
}

func formatMonth(year, month string) *string {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return nil
	}
	out := fmt.Sprintf("%s-%02d", year, m)
	return &out
}

// yearDate normalizes an education date to YYYY.
func yearDate(v any) *string {
	s := str(v)
	if s == "" {
		return nil
	}
	m := yearRe.FindString(s)
	if m == "" {
		return nil
	}
	return &m
}
