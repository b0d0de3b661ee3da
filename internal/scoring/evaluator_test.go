package scoring

import (
	"reflect"
	"testing"

	"github.com/omrtrack/attempt-tracker/internal/model"
)

func TestEvaluate_SingleSection(t *testing.T) {
	correct := model.AnswerSet{1: 1, 2: 2, 3: 3}
	user := model.AnswerSet{1: 1, 2: 3}
	sections := []model.Section{{Name: "A", Start: 1, End: 3}}
	sc := model.Scoring{Correct: 3, Wrong: -1, Blank: 0}

	got := Evaluate(correct, user, sections, sc)

	if got.QuestionCount != 3 {
		t.Fatalf("question_count = %d, want 3", got.QuestionCount)
	}
	if got.TotalCorrect != 1 || got.TotalWrong != 1 || got.TotalBlank != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/1", got.TotalCorrect, got.TotalWrong, got.TotalBlank)
	}
	if got.TotalScore != 2 {
		t.Fatalf("total_score = %d, want 2", got.TotalScore)
	}
	if got.TotalAnswered != 2 {
		t.Fatalf("total_answered = %d, want 2", got.TotalAnswered)
	}
	if got.Percentage != 33.33 {
		t.Fatalf("percentage = %v, want 33.33", got.Percentage)
	}

	a, ok := got.SectionStats["A"]
	if !ok {
		t.Fatal("section A missing from stats")
	}
	if a.Accuracy != 50.0 {
		t.Fatalf("section A accuracy = %v, want 50.0", a.Accuracy)
	}
	if a.Range != [2]int{1, 3} {
		t.Fatalf("section A range = %v, want [1 3]", a.Range)
	}
	if got.WeakestSection != "A" {
		t.Fatalf("weakest_section = %q, want A", got.WeakestSection)
	}
}

func TestEvaluate_CountInvariant(t *testing.T) {
	tests := []struct {
		name     string
		correct  model.AnswerSet
		user     model.AnswerSet
		sections []model.Section
	}{
		{
			name:    "gapped key",
			correct: model.AnswerSet{1: 1, 5: 2, 9: 4},
			user:    model.AnswerSet{1: 2, 3: 3, 5: 2},
			sections: []model.Section{
				{Name: "One", Start: 1, End: 4},
				{Name: "Two", Start: 5, End: 10},
			},
		},
		{
			name:     "no sections",
			correct:  model.AnswerSet{1: 1, 2: 2},
			user:     model.AnswerSet{2: 2},
			sections: nil,
		},
		{
			name:     "empty key",
			correct:  model.AnswerSet{},
			user:     model.AnswerSet{1: 1},
			sections: []model.Section{{Name: "A", Start: 1, End: 5}},
		},
	}

	sc := model.Scoring{Correct: 4, Wrong: -2, Blank: 1}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.correct, tc.user, tc.sections, sc)

			if sum := got.TotalCorrect + got.TotalWrong + got.TotalBlank; sum != len(tc.correct) {
				t.Fatalf("correct+wrong+blank = %d, want %d keyed questions", sum, len(tc.correct))
			}
			wantScore := got.TotalCorrect*sc.Correct + got.TotalWrong*sc.Wrong + got.TotalBlank*sc.Blank
			if got.TotalScore != wantScore {
				t.Fatalf("total_score = %d, want %d", got.TotalScore, wantScore)
			}
			if got.Percentage < 0 || got.Percentage > 100 {
				t.Fatalf("percentage %v out of [0,100]", got.Percentage)
			}
		})
	}
}

func TestEvaluate_EmptyInputs(t *testing.T) {
	got := Evaluate(model.AnswerSet{}, model.AnswerSet{}, nil, model.DefaultScoring)

	if got.QuestionCount != 0 || got.Percentage != 0 || got.TotalScore != 0 {
		t.Fatalf("expected zero result, got %+v", got)
	}
	if len(got.SectionStats) != 0 {
		t.Fatalf("expected no section stats, got %v", got.SectionStats)
	}
	if got.WeakestSection != "" {
		t.Fatalf("weakest_section = %q, want empty", got.WeakestSection)
	}
}

func TestEvaluate_UncategorizedOnly(t *testing.T) {
	// Empty layout still grades correctly into Uncategorized alone.
	correct := model.AnswerSet{1: 2, 2: 3}
	user := model.AnswerSet{1: 2, 2: 2}

	got := Evaluate(correct, user, nil, model.Scoring{Correct: 1, Wrong: 0, Blank: 0})

	st, ok := got.SectionStats[UncategorizedSection]
	if !ok {
		t.Fatal("Uncategorized missing from stats")
	}
	if st.Correct != 1 || st.Wrong != 1 {
		t.Fatalf("Uncategorized = %+v, want 1 correct 1 wrong", st)
	}
	if st.Range != [2]int{1, 2} {
		t.Fatalf("Uncategorized range = %v, want [1 2]", st.Range)
	}
	if got.WeakestSection != "" {
		t.Fatalf("weakest_section = %q, want empty without declared sections", got.WeakestSection)
	}
}

func TestEvaluate_QuestionCountFromSections(t *testing.T) {
	// Section end beyond the key raises question_count and so lowers
	// percentage; keyless questions inside the range stay ungraded.
	correct := model.AnswerSet{1: 1}
	user := model.AnswerSet{1: 1}
	sections := []model.Section{{Name: "A", Start: 1, End: 4}}

	got := Evaluate(correct, user, sections, model.Scoring{Correct: 1})

	if got.QuestionCount != 4 {
		t.Fatalf("question_count = %d, want 4", got.QuestionCount)
	}
	if got.TotalCorrect != 1 || got.TotalBlank != 0 {
		t.Fatalf("counts = %d correct %d blank, want 1/0", got.TotalCorrect, got.TotalBlank)
	}
	if got.Percentage != 25.0 {
		t.Fatalf("percentage = %v, want 25.0", got.Percentage)
	}
}

func TestEvaluate_OverlapFirstMatchWins(t *testing.T) {
	correct := model.AnswerSet{2: 1}
	user := model.AnswerSet{2: 1}
	sections := []model.Section{
		{Name: "First", Start: 1, End: 5},
		{Name: "Second", Start: 2, End: 8},
	}

	got := Evaluate(correct, user, sections, model.Scoring{Correct: 1})

	if st := got.SectionStats["First"]; st.Correct != 1 {
		t.Fatalf("First = %+v, want the overlapping question", st)
	}
	if _, ok := got.SectionStats["Second"]; ok {
		t.Fatal("Second should have no activity and be dropped")
	}
}

func TestEvaluate_WeakestSectionTieBreak(t *testing.T) {
	// Both sections fully wrong: accuracy 0 each, first declared wins.
	correct := model.AnswerSet{1: 1, 2: 1}
	user := model.AnswerSet{1: 2, 2: 2}
	sections := []model.Section{
		{Name: "Alpha", Start: 1, End: 1},
		{Name: "Beta", Start: 2, End: 2},
	}

	got := Evaluate(correct, user, sections, model.Scoring{Correct: 1, Wrong: -1})

	if got.WeakestSection != "Alpha" {
		t.Fatalf("weakest_section = %q, want Alpha on tie", got.WeakestSection)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	correct := model.AnswerSet{1: 1, 2: 2, 3: 3, 7: 4}
	user := model.AnswerSet{1: 1, 3: 2}
	sections := []model.Section{
		{Name: "A", Start: 1, End: 3},
		{Name: "B", Start: 4, End: 8},
	}
	sc := model.Scoring{Correct: 3, Wrong: -1, Blank: 0}

	first := Evaluate(correct, user, sections, sc)
	second := Evaluate(correct, user, sections, sc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("evaluate not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestEvaluate_NegativeBlankScoring(t *testing.T) {
	correct := model.AnswerSet{1: 1, 2: 2}
	user := model.AnswerSet{}

	got := Evaluate(correct, user, nil, model.Scoring{Correct: 5, Wrong: -3, Blank: -1})

	if got.TotalBlank != 2 || got.TotalScore != -2 {
		t.Fatalf("blank = %d score = %d, want 2 and -2", got.TotalBlank, got.TotalScore)
	}
}
