package model

import "time"

// ScorePoint is one entry of an exam's chronological score series.
type ScorePoint struct {
	AttemptID   string    `json:"attempt_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Score       float64   `json:"score"`
	Accuracy    float64   `json:"accuracy"`
}

// SectionAccuracy pairs a section name with its mean accuracy across
// attempts. Kept as a slice so ascending order survives JSON encoding.
type SectionAccuracy struct {
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
}

// ExamAnalytics summarizes the attempt history of one exam. Always
// recomputed from raw attempts, never persisted.
type ExamAnalytics struct {
	AttemptCount    int               `json:"attempt_count"`
	AverageScore    float64           `json:"average_score"`
	BestScore       float64           `json:"best_score"`
	WorstScore      float64           `json:"worst_score"`
	AverageAccuracy float64           `json:"average_accuracy"`
	Improvement     float64           `json:"improvement"`
	ScoreSeries     []ScorePoint      `json:"score_series"`
	SectionAccuracy []SectionAccuracy `json:"section_accuracy"`
	WeakSections    []string          `json:"weak_sections"`
}

// ExamStat is the per-profile row of the global leaderboard.
type ExamStat struct {
	ExamID          string  `json:"exam_id"`
	Title           string  `json:"title"`
	AttemptCount    int     `json:"attempt_count"`
	AverageScore    float64 `json:"average_score"`
	AverageAccuracy float64 `json:"average_accuracy"`
}

// GlobalAnalytics rolls summaries up across all exam profiles.
type GlobalAnalytics struct {
	TotalAttempts int        `json:"total_attempts"`
	ExamCount     int        `json:"exam_count"`
	ExamStats     []ExamStat `json:"exam_stats"`
}
