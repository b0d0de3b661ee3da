package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/rs/zerolog"
)

// ExportService renders attempt histories as CSV and the whole data set as
// a ZIP backup bundle. The builders are pure over in-memory records; only
// the fetch wrappers touch storage.
type ExportService struct {
	profileRepo *repository.ExamProfileRepository
	keyRepo     *repository.AnswerKeyRepository
	attemptRepo *repository.AttemptRepository
	log         zerolog.Logger
}

func NewExportService(
	profileRepo *repository.ExamProfileRepository,
	keyRepo *repository.AnswerKeyRepository,
	attemptRepo *repository.AttemptRepository,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{
		profileRepo: profileRepo,
		keyRepo:     keyRepo,
		attemptRepo: attemptRepo,
		log:         log.With().Str("component", "export_service").Logger(),
	}
}

// AttemptsCSV exports one exam's attempts as flat CSV rows, newest last.
func (s *ExportService) AttemptsCSV(ctx context.Context, examID string) ([]byte, error) {
	attempts, err := s.attemptRepo.ListByExam(ctx, model.SanitizeID(examID))
	if err != nil {
		return nil, err
	}
	return BuildAttemptsCSV(attempts)
}

// BuildAttemptsCSV renders attempts as CSV rows.
func BuildAttemptsCSV(attempts []model.Attempt) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"attempt_id", "exam_id", "exam_title", "submitted_at",
		"total_score", "total_correct", "total_wrong", "total_blank", "accuracy",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, a := range attempts {
		row := []string{
			a.ID,
			a.ExamID,
			a.ExamTitle,
			a.SubmittedAt.UTC().Format("2006-01-02 15:04:05"),
			strconv.Itoa(a.Result.TotalScore),
			strconv.Itoa(a.Result.TotalCorrect),
			strconv.Itoa(a.Result.TotalWrong),
			strconv.Itoa(a.Result.TotalBlank),
			strconv.FormatFloat(a.Result.Percentage, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BackupZip bundles all three stores into one ZIP: exams.json,
// attempts.json and one keys/<exam_id>.json per answer key.
func (s *ExportService) BackupZip(ctx context.Context) ([]byte, error) {
	profiles, err := s.profileRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := s.keyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBackupZip(profiles, keys, attempts)
}

// BuildBackupZip assembles the backup bundle from in-memory records.
func BuildBackupZip(profiles []model.ExamProfile, keys map[string]model.AnswerSet, attempts []model.Attempt) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data interface{}
	}{
		{"exams.json", map[string]interface{}{"profiles": profiles}},
		{"attempts.json", attempts},
	}
	for _, e := range entries {
		if err := writeZipJSON(zw, e.name, e.data); err != nil {
			return nil, err
		}
	}

	// Deterministic archive layout: keys sorted by exam id.
	for _, examID := range sortedKeyIDs(keys) {
		name := fmt.Sprintf("keys/%s.json", examID)
		if err := writeZipJSON(zw, name, keys[examID]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeZipJSON(zw *zip.Writer, name string, data interface{}) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func sortedKeyIDs(keys map[string]model.AnswerSet) []string {
	ids := make([]string, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
