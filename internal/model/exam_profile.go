package model

import (
	"regexp"
	"strings"
	"time"
)

const DefaultDurationSeconds = 3 * 60 * 60

// DefaultScoring is used when a profile or submission omits point values.
var DefaultScoring = Scoring{Correct: 3, Wrong: -1, Blank: 0}

// Scoring holds the point values applied per graded question.
// Values carry no sign constraint; negative marking is a domain choice.
type Scoring struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Blank   int `json:"blank"`
}

// ScoringPatch is a partial scoring override. Absent fields fall back
// field-by-field to the owning profile's default scoring.
type ScoringPatch struct {
	Correct *int `json:"correct" binding:"omitempty"`
	Wrong   *int `json:"wrong" binding:"omitempty"`
	Blank   *int `json:"blank" binding:"omitempty"`
}

// Resolve merges the patch over the fallback scoring.
func (p *ScoringPatch) Resolve(fallback Scoring) Scoring {
	if p == nil {
		return fallback
	}
	out := fallback
	if p.Correct != nil {
		out.Correct = *p.Correct
	}
	if p.Wrong != nil {
		out.Wrong = *p.Wrong
	}
	if p.Blank != nil {
		out.Blank = *p.Blank
	}
	return out
}

// Section is a named inclusive range of question numbers. Section order is
// significant: resolution is first-match-wins, so sections are always carried
// as an ordered slice, never a map.
type Section struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Contains reports whether the question number falls inside the range.
func (s Section) Contains(question int) bool {
	return question >= s.Start && question <= s.End
}

// ExamProfile is the exam-level configuration record.
type ExamProfile struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Subject         string    `json:"subject"`
	Year            string    `json:"year"`
	DurationSeconds int       `json:"duration_seconds"`
	Sections        []Section `json:"sections"`
	DefaultScoring  Scoring   `json:"default_scoring"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SaveExamProfileRequest is the payload for creating or updating a profile.
type SaveExamProfileRequest struct {
	ID              string        `json:"id" binding:"required,min=1,max=64"`
	Title           string        `json:"title" binding:"required,min=1,max=255"`
	Subject         string        `json:"subject" binding:"omitempty,max=128"`
	Year            string        `json:"year" binding:"omitempty,max=16"`
	DurationSeconds int           `json:"duration_seconds" binding:"omitempty,min=60"`
	Sections        []Section     `json:"sections" binding:"required,min=1,dive"`
	DefaultScoring  *ScoringPatch `json:"default_scoring" binding:"omitempty"`
}

var idPattern = regexp.MustCompile(`[^a-z0-9\-]+`)

// SanitizeID lowercases the value and collapses every run of characters
// outside [a-z0-9-] into a single dash.
func SanitizeID(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = idPattern.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

// NormalizeSections trims names and drops ranges that cannot hold a question
// (start below 1 or end before start). Order is preserved as authored.
// Overlaps are left alone here; they surface as validation warnings only.
func NormalizeSections(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		name := strings.TrimSpace(s.Name)
		if name == "" || s.Start < 1 || s.End < s.Start {
			continue
		}
		out = append(out, Section{Name: name, Start: s.Start, End: s.End})
	}
	return out
}

// DefaultProfile is the built-in profile returned when the store is empty.
// At least one profile must always exist for the submission flow to work.
func DefaultProfile() ExamProfile {
	return ExamProfile{
		ID:              "assessment-default",
		Title:           "Assessment Default Exam",
		Subject:         "General",
		Year:            "N/A",
		DurationSeconds: DefaultDurationSeconds,
		Sections: []Section{
			{Name: "English", Start: 1, End: 25},
			{Name: "Mathematics", Start: 26, End: 45},
			{Name: "Special 1", Start: 46, End: 55},
			{Name: "Special 2", Start: 56, End: 75},
			{Name: "Special 3", Start: 76, End: 95},
			{Name: "Special 4", Start: 96, End: 115},
		},
		DefaultScoring: DefaultScoring,
	}
}
