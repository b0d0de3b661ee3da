package scoring

import (
	"reflect"
	"testing"
	"time"

	"github.com/omrtrack/attempt-tracker/internal/model"
)

func attemptAt(t *testing.T, id string, offset time.Duration, score int, percentage float64, sections []model.Section, sectionAcc map[string]float64) model.Attempt {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	stats := make(map[string]model.SectionStat, len(sectionAcc))
	for name, acc := range sectionAcc {
		stats[name] = model.SectionStat{Accuracy: acc, Correct: 1}
	}

	return model.Attempt{
		ID:          id,
		ExamID:      "demo",
		SubmittedAt: base.Add(offset),
		Sections:    sections,
		Result: model.EvaluationResult{
			TotalScore:   score,
			Percentage:   percentage,
			SectionStats: stats,
		},
	}
}

func TestAnalyzeExam_TwoAttempts(t *testing.T) {
	sections := []model.Section{
		{Name: "A", Start: 1, End: 5},
		{Name: "B", Start: 6, End: 10},
	}
	attempts := []model.Attempt{
		attemptAt(t, "att_1", 0, 10, 40, sections, map[string]float64{"A": 80, "B": 20}),
		attemptAt(t, "att_2", time.Hour, 16, 60, sections, map[string]float64{"A": 60, "B": 40}),
	}

	got := AnalyzeExam(attempts)

	if got.AttemptCount != 2 {
		t.Fatalf("attempt_count = %d, want 2", got.AttemptCount)
	}
	if got.AverageScore != 13.0 {
		t.Fatalf("average_score = %v, want 13.0", got.AverageScore)
	}
	if got.BestScore != 16 || got.WorstScore != 10 {
		t.Fatalf("best/worst = %v/%v, want 16/10", got.BestScore, got.WorstScore)
	}
	if got.AverageAccuracy != 50.0 {
		t.Fatalf("average_accuracy = %v, want 50.0", got.AverageAccuracy)
	}
	if got.Improvement != 6 {
		t.Fatalf("improvement = %v, want 6", got.Improvement)
	}
	if len(got.ScoreSeries) != 2 || got.ScoreSeries[0].AttemptID != "att_1" {
		t.Fatalf("score_series = %+v, want chronological order", got.ScoreSeries)
	}

	wantSections := []model.SectionAccuracy{
		{Name: "B", Accuracy: 30},
		{Name: "A", Accuracy: 70},
	}
	if !reflect.DeepEqual(got.SectionAccuracy, wantSections) {
		t.Fatalf("section_accuracy = %+v, want %+v", got.SectionAccuracy, wantSections)
	}
	if !reflect.DeepEqual(got.WeakSections, []string{"B", "A"}) {
		t.Fatalf("weak_sections = %v, want [B A]", got.WeakSections)
	}
}

func TestAnalyzeExam_Empty(t *testing.T) {
	got := AnalyzeExam(nil)

	if got.AttemptCount != 0 || got.AverageScore != 0 || got.Improvement != 0 {
		t.Fatalf("expected zero analytics, got %+v", got)
	}
	if len(got.ScoreSeries) != 0 || len(got.SectionAccuracy) != 0 || len(got.WeakSections) != 0 {
		t.Fatalf("expected empty collections, got %+v", got)
	}
	if got.ScoreSeries == nil || got.WeakSections == nil {
		t.Fatal("collections must be empty, not nil, for JSON consumers")
	}
}

func TestAnalyzeExam_SingleAttempt(t *testing.T) {
	got := AnalyzeExam([]model.Attempt{
		attemptAt(t, "att_only", 0, 12, 55.5, nil, nil),
	})

	if got.Improvement != 0 {
		t.Fatalf("improvement = %v, want 0 with one attempt", got.Improvement)
	}
	if got.BestScore != 12 || got.WorstScore != 12 || got.AverageScore != 12 {
		t.Fatalf("best/worst/avg = %v/%v/%v, want all 12", got.BestScore, got.WorstScore, got.AverageScore)
	}
}

func TestAnalyzeExam_SortsBySubmittedAt(t *testing.T) {
	// Input arrives newest first; improvement must still be last-first in
	// chronological terms.
	attempts := []model.Attempt{
		attemptAt(t, "att_new", 2*time.Hour, 20, 80, nil, nil),
		attemptAt(t, "att_old", 0, 5, 20, nil, nil),
	}

	got := AnalyzeExam(attempts)

	if got.Improvement != 15 {
		t.Fatalf("improvement = %v, want 15", got.Improvement)
	}
	if got.ScoreSeries[0].AttemptID != "att_old" {
		t.Fatalf("series starts at %q, want att_old", got.ScoreSeries[0].AttemptID)
	}
}

func TestAnalyzeExam_WeakSectionsCapAtThree(t *testing.T) {
	sections := []model.Section{
		{Name: "S1", Start: 1, End: 1},
		{Name: "S2", Start: 2, End: 2},
		{Name: "S3", Start: 3, End: 3},
		{Name: "S4", Start: 4, End: 4},
	}
	got := AnalyzeExam([]model.Attempt{
		attemptAt(t, "att_1", 0, 8, 50, sections, map[string]float64{"S1": 90, "S2": 10, "S3": 40, "S4": 70}),
	})

	if !reflect.DeepEqual(got.WeakSections, []string{"S2", "S3", "S4"}) {
		t.Fatalf("weak_sections = %v, want the three lowest ascending", got.WeakSections)
	}

	// weak_sections must be a prefix of section_accuracy.
	for i, name := range got.WeakSections {
		if got.SectionAccuracy[i].Name != name {
			t.Fatalf("weak_sections diverges from section_accuracy at %d", i)
		}
	}
}

func TestAnalyzeExam_ExcludesUncategorized(t *testing.T) {
	sections := []model.Section{{Name: "A", Start: 1, End: 2}}
	attempt := attemptAt(t, "att_1", 0, 3, 50, sections, map[string]float64{"A": 50})
	attempt.Result.SectionStats[UncategorizedSection] = model.SectionStat{Accuracy: 10, Wrong: 1}

	got := AnalyzeExam([]model.Attempt{attempt})

	for _, sa := range got.SectionAccuracy {
		if sa.Name == UncategorizedSection {
			t.Fatal("Uncategorized leaked into section_accuracy")
		}
	}
}

func TestAnalyzeExam_Idempotent(t *testing.T) {
	attempts := []model.Attempt{
		attemptAt(t, "att_1", 0, 10, 40, nil, nil),
		attemptAt(t, "att_2", time.Minute, 16, 60, nil, nil),
	}

	first := AnalyzeExam(attempts)
	second := AnalyzeExam(attempts)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("analytics recomputation is not idempotent")
	}

	if first.AverageScore < first.WorstScore || first.AverageScore > first.BestScore {
		t.Fatalf("average %v outside [worst %v, best %v]", first.AverageScore, first.WorstScore, first.BestScore)
	}
}

func TestAnalyzeGlobal(t *testing.T) {
	profiles := []model.ExamProfile{
		{ID: "quiet", Title: "Quiet Exam"},
		{ID: "busy", Title: "Busy Exam"},
		{ID: "silent", Title: "Silent Exam"},
	}
	attempts := []model.Attempt{
		attemptAt(t, "att_1", 0, 10, 40, nil, nil),
		attemptAt(t, "att_2", time.Hour, 20, 80, nil, nil),
		attemptAt(t, "att_3", 2*time.Hour, 6, 30, nil, nil),
	}
	attempts[0].ExamID = "busy"
	attempts[1].ExamID = "busy"
	attempts[2].ExamID = "quiet"

	got := AnalyzeGlobal(profiles, attempts)

	if got.TotalAttempts != 3 || got.ExamCount != 3 {
		t.Fatalf("totals = %d/%d, want 3/3", got.TotalAttempts, got.ExamCount)
	}
	if len(got.ExamStats) != 3 {
		t.Fatalf("exam_stats size = %d, want 3", len(got.ExamStats))
	}
	if got.ExamStats[0].ExamID != "busy" || got.ExamStats[0].AttemptCount != 2 {
		t.Fatalf("leaderboard head = %+v, want busy with 2 attempts", got.ExamStats[0])
	}
	if got.ExamStats[1].ExamID != "quiet" {
		t.Fatalf("second = %+v, want quiet", got.ExamStats[1])
	}
	// Zero-attempt profiles keep their input order at the tail.
	if got.ExamStats[2].ExamID != "silent" || got.ExamStats[2].AverageScore != 0 {
		t.Fatalf("tail = %+v, want silent with zero stats", got.ExamStats[2])
	}
}

func TestAnalyzeGlobal_CountsOrphanedAttempts(t *testing.T) {
	// Attempts for deleted profiles still count toward the global total.
	orphan := attemptAt(t, "att_x", 0, 1, 10, nil, nil)
	orphan.ExamID = "deleted-exam"

	got := AnalyzeGlobal([]model.ExamProfile{{ID: "live", Title: "Live"}}, []model.Attempt{orphan})

	if got.TotalAttempts != 1 {
		t.Fatalf("total_attempts = %d, want 1", got.TotalAttempts)
	}
	if got.ExamStats[0].AttemptCount != 0 {
		t.Fatalf("live exam attempt_count = %d, want 0", got.ExamStats[0].AttemptCount)
	}
}
