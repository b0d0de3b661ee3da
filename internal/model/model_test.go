package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"UTME 2025", "utme-2025"},
		{"  jamb_mock!  ", "jamb-mock"},
		{"---", ""},
		{"already-clean", "already-clean"},
		{"Ünïcode", "n-code"},
	}
	for _, tc := range tests {
		if got := SanitizeID(tc.in); got != tc.want {
			t.Errorf("SanitizeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAnswerSet(t *testing.T) {
	got := NormalizeAnswerSet(map[int]int{
		1:  1,
		2:  5, // option out of range
		0:  2, // question below 1
		-3: 1,
		7:  4,
	})
	want := AnswerSet{1: 1, 7: 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeAnswerSet = %v, want %v", got, want)
	}
}

func TestAnswerSetTruncated(t *testing.T) {
	set := AnswerSet{1: 1, 50: 2, 120: 3}
	got := set.Truncated(100)
	want := AnswerSet{1: 1, 50: 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Truncated = %v, want %v", got, want)
	}
	if set.MaxQuestion() != 120 {
		t.Fatalf("MaxQuestion = %d, want 120", set.MaxQuestion())
	}
}

func TestAnswerSetJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(AnswerSet{12: 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"12":3}` {
		t.Fatalf("marshal = %s, want string question keys", raw)
	}

	var back AnswerSet
	if err := json.Unmarshal([]byte(`{"4":2,"9":1}`), &back); err != nil {
		t.Fatal(err)
	}
	if back[4] != 2 || back[9] != 1 {
		t.Fatalf("unmarshal = %v", back)
	}
}

func TestNormalizeSections(t *testing.T) {
	got := NormalizeSections([]Section{
		{Name: "  A  ", Start: 1, End: 10},
		{Name: "", Start: 11, End: 20},
		{Name: "B", Start: 0, End: 5},
		{Name: "C", Start: 9, End: 3},
		{Name: "D", Start: 21, End: 21},
	})
	want := []Section{
		{Name: "A", Start: 1, End: 10},
		{Name: "D", Start: 21, End: 21},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeSections = %v, want %v", got, want)
	}
}

func TestScoringPatchResolve(t *testing.T) {
	wrong := -2
	fallback := Scoring{Correct: 3, Wrong: -1, Blank: 0}

	tests := []struct {
		name  string
		patch *ScoringPatch
		want  Scoring
	}{
		{"nil patch", nil, fallback},
		{"empty patch", &ScoringPatch{}, fallback},
		{"partial patch", &ScoringPatch{Wrong: &wrong}, Scoring{Correct: 3, Wrong: -2, Blank: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.patch.Resolve(fallback); got != tc.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNewAttemptID(t *testing.T) {
	id := NewAttemptID()
	if len(id) != len("att_")+16 {
		t.Fatalf("attempt id %q has unexpected length", id)
	}
	if id[:4] != "att_" {
		t.Fatalf("attempt id %q missing att_ prefix", id)
	}
	if id == NewAttemptID() {
		t.Fatal("attempt ids must be unique")
	}
}
