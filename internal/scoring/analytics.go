package scoring

import (
	"sort"

	"github.com/omrtrack/attempt-tracker/internal/model"
)

// AnalyzeExam reduces the attempt history of one exam into summary
// statistics and a chronological score series. Attempts are ordered by
// submission time ascending; ties keep their input order. Zero attempts
// yield all-zero defaults, never an error.
func AnalyzeExam(attempts []model.Attempt) model.ExamAnalytics {
	analytics := model.ExamAnalytics{
		ScoreSeries:     []model.ScorePoint{},
		SectionAccuracy: []model.SectionAccuracy{},
		WeakSections:    []string{},
	}
	if len(attempts) == 0 {
		return analytics
	}

	ordered := make([]model.Attempt, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	var sumScore, sumAccuracy float64
	var bestScore, worstScore float64
	sectionSums := make(map[string]float64)
	sectionCounts := make(map[string]int)
	var sectionOrder []string

	for i, attempt := range ordered {
		score := float64(attempt.Result.TotalScore)
		accuracy := attempt.Result.Percentage
		sumScore += score
		sumAccuracy += accuracy

		if i == 0 || score > bestScore {
			bestScore = score
		}
		if i == 0 || score < worstScore {
			worstScore = score
		}

		analytics.ScoreSeries = append(analytics.ScoreSeries, model.ScorePoint{
			AttemptID:   attempt.ID,
			SubmittedAt: attempt.SubmittedAt,
			Score:       score,
			Accuracy:    accuracy,
		})

		// Walk the attempt's own section snapshot so accumulation order is
		// deterministic; the stats map alone has no iteration order.
		for _, s := range attempt.Sections {
			if s.Name == UncategorizedSection {
				continue
			}
			st, ok := attempt.Result.SectionStats[s.Name]
			if !ok {
				continue
			}
			if _, seen := sectionCounts[s.Name]; !seen {
				sectionOrder = append(sectionOrder, s.Name)
			}
			sectionSums[s.Name] += st.Accuracy
			sectionCounts[s.Name]++
		}
	}

	for _, name := range sectionOrder {
		analytics.SectionAccuracy = append(analytics.SectionAccuracy, model.SectionAccuracy{
			Name:     name,
			Accuracy: round2(sectionSums[name] / float64(sectionCounts[name])),
		})
	}
	sort.SliceStable(analytics.SectionAccuracy, func(i, j int) bool {
		return analytics.SectionAccuracy[i].Accuracy < analytics.SectionAccuracy[j].Accuracy
	})

	for _, sa := range analytics.SectionAccuracy {
		if len(analytics.WeakSections) == 3 {
			break
		}
		analytics.WeakSections = append(analytics.WeakSections, sa.Name)
	}

	count := float64(len(ordered))
	analytics.AttemptCount = len(ordered)
	analytics.AverageScore = round2(sumScore / count)
	analytics.BestScore = bestScore
	analytics.WorstScore = worstScore
	analytics.AverageAccuracy = round2(sumAccuracy / count)

	first := analytics.ScoreSeries[0].Score
	last := analytics.ScoreSeries[len(analytics.ScoreSeries)-1].Score
	analytics.Improvement = round2(last - first)

	return analytics
}

// AnalyzeGlobal rolls per-exam summaries up into a leaderboard sorted by
// attempt count descending, stable on profile order. TotalAttempts counts
// every stored attempt, including ones whose profile has since been deleted.
func AnalyzeGlobal(profiles []model.ExamProfile, attempts []model.Attempt) model.GlobalAnalytics {
	byExam := make(map[string][]model.Attempt)
	for _, a := range attempts {
		byExam[a.ExamID] = append(byExam[a.ExamID], a)
	}

	stats := make([]model.ExamStat, 0, len(profiles))
	for _, p := range profiles {
		summary := AnalyzeExam(byExam[p.ID])
		stats = append(stats, model.ExamStat{
			ExamID:          p.ID,
			Title:           p.Title,
			AttemptCount:    summary.AttemptCount,
			AverageScore:    summary.AverageScore,
			AverageAccuracy: summary.AverageAccuracy,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AttemptCount > stats[j].AttemptCount
	})

	return model.GlobalAnalytics{
		TotalAttempts: len(attempts),
		ExamCount:     len(profiles),
		ExamStats:     stats,
	}
}
