package scoring

import (
	"fmt"

	"github.com/omrtrack/attempt-tracker/internal/model"
)

// UncategorizedSection collects keyed questions no declared section covers.
const UncategorizedSection = "Uncategorized"

// SectionFor resolves a question number to the first section whose inclusive
// range contains it. Input order is authoritative: when ranges overlap the
// earlier section wins. Overlap itself is a configuration defect reported by
// ValidateSections, not corrected here.
func SectionFor(question int, sections []model.Section) string {
	for _, s := range sections {
		if s.Contains(question) {
			return s.Name
		}
	}
	return UncategorizedSection
}

// QuestionCount derives the graded question range: the higher of the largest
// keyed question and the largest section end. An answer key with gaps above
// that bound under-counts; downstream analytics rely on this exact rule.
func QuestionCount(correctAnswers model.AnswerSet, sections []model.Section) int {
	count := correctAnswers.MaxQuestion()
	for _, s := range sections {
		if s.End > count {
			count = s.End
		}
	}
	return count
}

// ValidateSections checks a section layout against the highest keyed
// question and returns non-fatal warnings for an administrator. Grading is
// never blocked by a bad layout.
func ValidateSections(sections []model.Section, maxQuestion int) []string {
	var warnings []string
	used := make(map[int]bool)

	for _, s := range sections {
		if s.Start < 1 || s.End < s.Start {
			warnings = append(warnings, fmt.Sprintf("Section %q has an invalid range.", s.Name))
			continue
		}

		if maxQuestion > 0 && s.End > maxQuestion {
			warnings = append(warnings, fmt.Sprintf("Section %q extends beyond answer key max question (%d).", s.Name, maxQuestion))
		}

		for q := s.Start; q <= s.End; q++ {
			if used[q] {
				warnings = append(warnings, fmt.Sprintf("Section overlap detected at question %d.", q))
				break
			}
			used[q] = true
		}
	}

	return dedupe(warnings)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, w := range in {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
