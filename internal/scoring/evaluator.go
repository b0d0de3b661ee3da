package scoring

import (
	"math"

	"github.com/omrtrack/attempt-tracker/internal/model"
)

// Evaluate grades one submission against one answer key under one section
// layout and scoring rule. It is a pure function: no storage, no clock, no
// hidden state, and identical inputs always produce identical results.
//
// Only questions present in correctAnswers are graded. A keyed question with
// no submitted answer counts as blank; anything the key does not cover is
// skipped entirely, neither blank nor graded.
func Evaluate(correctAnswers, userAnswers model.AnswerSet, sections []model.Section, sc model.Scoring) model.EvaluationResult {
	questionCount := QuestionCount(correctAnswers, sections)

	stats := make(map[string]*model.SectionStat, len(sections)+1)
	for _, s := range sections {
		stats[s.Name] = &model.SectionStat{Range: [2]int{s.Start, s.End}}
	}
	stats[UncategorizedSection] = &model.SectionStat{Range: [2]int{1, questionCount}}

	result := model.EvaluationResult{
		QuestionCount: questionCount,
		Scoring:       sc,
	}

	for q := 1; q <= questionCount; q++ {
		key, keyed := correctAnswers[q]
		if !keyed {
			continue
		}

		name := SectionFor(q, sections)
		tally, ok := stats[name]
		if !ok {
			tally = stats[UncategorizedSection]
		}

		answer, answered := userAnswers[q]
		switch {
		case !answered:
			result.TotalBlank++
			result.TotalScore += sc.Blank
			tally.Blank++
			tally.Score += sc.Blank
		case answer == key:
			result.TotalCorrect++
			result.TotalScore += sc.Correct
			tally.Correct++
			tally.Score += sc.Correct
		default:
			result.TotalWrong++
			result.TotalScore += sc.Wrong
			tally.Wrong++
			tally.Score += sc.Wrong
		}
	}

	result.TotalAnswered = result.TotalCorrect + result.TotalWrong

	sectionStats := make(map[string]model.SectionStat, len(stats))
	for name, tally := range stats {
		if answered := tally.Correct + tally.Wrong; answered > 0 {
			tally.Accuracy = round2(float64(tally.Correct) / float64(answered) * 100)
		}
		// Sections the key never touched are dropped from the result.
		if tally.Correct == 0 && tally.Wrong == 0 && tally.Blank == 0 {
			continue
		}
		sectionStats[name] = *tally
	}
	result.SectionStats = sectionStats

	if questionCount > 0 {
		result.Percentage = round2(float64(result.TotalCorrect) / float64(questionCount) * 100)
	}

	// Weakest declared section, ties broken by authored order.
	lowest := math.Inf(1)
	for _, s := range sections {
		st, ok := sectionStats[s.Name]
		if !ok || s.Name == UncategorizedSection {
			continue
		}
		if st.Accuracy < lowest {
			lowest = st.Accuracy
			result.WeakestSection = s.Name
		}
	}

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
