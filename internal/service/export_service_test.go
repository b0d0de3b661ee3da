package service

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/omrtrack/attempt-tracker/internal/model"
)

func sampleAttempt() model.Attempt {
	return model.Attempt{
		ID:          "att_0123456789abcdef",
		ExamID:      "utme-2025",
		ExamTitle:   "UTME 2025",
		SubmittedAt: time.Date(2026, 5, 2, 14, 30, 0, 0, time.UTC),
		Result: model.EvaluationResult{
			TotalScore:   42,
			TotalCorrect: 15,
			TotalWrong:   3,
			TotalBlank:   2,
			Percentage:   37.5,
		},
	}
}

func TestBuildAttemptsCSV(t *testing.T) {
	raw, err := BuildAttemptsCSV([]model.Attempt{sampleAttempt()})
	if err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(records))
	}
	if records[0][0] != "attempt_id" || records[0][8] != "accuracy" {
		t.Fatalf("unexpected header %v", records[0])
	}

	row := records[1]
	want := []string{"att_0123456789abcdef", "utme-2025", "UTME 2025", "2026-05-02 14:30:00", "42", "15", "3", "2", "37.5"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestBuildAttemptsCSV_Empty(t *testing.T) {
	raw, err := BuildAttemptsCSV(nil)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("empty export should still carry the header, got %d rows", len(records))
	}
}

func TestBuildBackupZip(t *testing.T) {
	profiles := []model.ExamProfile{{ID: "utme-2025", Title: "UTME 2025"}}
	keys := map[string]model.AnswerSet{
		"utme-2025": {1: 2, 2: 4},
		"alt-exam":  {},
	}
	attempts := []model.Attempt{sampleAttempt()}

	raw, err := BuildBackupZip(profiles, keys, attempts)
	if err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatal(err)
	}

	wantNames := []string{"exams.json", "attempts.json", "keys/alt-exam.json", "keys/utme-2025.json"}
	if len(zr.File) != len(wantNames) {
		t.Fatalf("archive holds %d files, want %d", len(zr.File), len(wantNames))
	}
	for i, f := range zr.File {
		if f.Name != wantNames[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, wantNames[i])
		}
	}

	rc, err := zr.File[3].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}

	var key model.AnswerSet
	if err := json.Unmarshal(content, &key); err != nil {
		t.Fatal(err)
	}
	if key[1] != 2 || key[2] != 4 {
		t.Fatalf("answer key round trip = %v", key)
	}
}
