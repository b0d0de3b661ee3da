package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SectionStat is the per-section breakdown inside an evaluation result.
type SectionStat struct {
	Range    [2]int  `json:"range"`
	Correct  int     `json:"correct"`
	Wrong    int     `json:"wrong"`
	Blank    int     `json:"blank"`
	Score    int     `json:"score"`
	Accuracy float64 `json:"accuracy"`
}

// EvaluationResult is the structured output of grading one submission.
// For every graded question exactly one of correct/wrong/blank holds, so
// TotalCorrect+TotalWrong+TotalBlank equals the number of keyed questions.
type EvaluationResult struct {
	QuestionCount  int                    `json:"question_count"`
	TotalScore     int                    `json:"total_score"`
	TotalCorrect   int                    `json:"total_correct"`
	TotalWrong     int                    `json:"total_wrong"`
	TotalBlank     int                    `json:"total_blank"`
	TotalAnswered  int                    `json:"total_answered"`
	Percentage     float64                `json:"percentage"`
	SectionStats   map[string]SectionStat `json:"section_stats"`
	WeakestSection string                 `json:"weakest_section"`
	Scoring        Scoring                `json:"scoring"`
}

// Attempt is one graded submission. It snapshots the sections, scoring and
// answer key as they were at submission time, so later profile edits never
// change how a past attempt reads. Immutable once created.
type Attempt struct {
	ID              string           `json:"id"`
	ExamID          string           `json:"exam_id"`
	ExamTitle       string           `json:"exam_title"`
	Subject         string           `json:"subject"`
	Year            string           `json:"year"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	DurationSeconds int              `json:"duration_seconds"`
	Sections        []Section        `json:"sections"`
	Scoring         Scoring          `json:"scoring"`
	QuestionCount   int              `json:"question_count"`
	UserAnswers     AnswerSet        `json:"user_answers"`
	CorrectAnswers  AnswerSet        `json:"correct_answers"`
	Result          EvaluationResult `json:"results"`
}

// NewAttemptID returns a fresh "att_"-prefixed identifier.
func NewAttemptID() string {
	return "att_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// SubmitAttemptRequest is the submission payload. Scoring and duration are
// optional; they fall back to the profile defaults.
type SubmitAttemptRequest struct {
	ExamID          string        `json:"exam_id" binding:"required"`
	Answers         map[int]int   `json:"answers"`
	Scoring         *ScoringPatch `json:"scoring" binding:"omitempty"`
	DurationSeconds *int          `json:"duration_seconds" binding:"omitempty"`
}

// ReplaceAnswerKeyRequest replaces a profile's answer key wholesale.
type ReplaceAnswerKeyRequest struct {
	Answers map[int]int `json:"answers" binding:"required"`
}
