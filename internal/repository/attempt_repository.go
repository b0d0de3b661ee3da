package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omrtrack/attempt-tracker/internal/model"
)

// AttemptRepository is the append-only store of graded attempts. Rows are
// never updated: an attempt snapshots its sections, scoring and answer key
// at submission time. Each append is a single INSERT, so concurrent
// submissions cannot corrupt the collection.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, exam_id, exam_title, subject, year, submitted_at, duration_seconds,
	sections, scoring, question_count, user_answers, correct_answers, result`

func (r *AttemptRepository) Append(ctx context.Context, a *model.Attempt) error {
	sections, err := json.Marshal(a.Sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	scoring, err := json.Marshal(a.Scoring)
	if err != nil {
		return fmt.Errorf("encode scoring: %w", err)
	}
	userAnswers, err := json.Marshal(a.UserAnswers)
	if err != nil {
		return fmt.Errorf("encode user_answers: %w", err)
	}
	correctAnswers, err := json.Marshal(a.CorrectAnswers)
	if err != nil {
		return fmt.Errorf("encode correct_answers: %w", err)
	}
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO attempts (`+attemptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.ExamID, a.ExamTitle, a.Subject, a.Year, a.SubmittedAt, a.DurationSeconds,
		sections, scoring, a.QuestionCount, userAnswers, correctAnswers, result)
	return err
}

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	var a model.Attempt
	var sections, scoring, userAnswers, correctAnswers, result []byte
	if err := row.Scan(&a.ID, &a.ExamID, &a.ExamTitle, &a.Subject, &a.Year, &a.SubmittedAt,
		&a.DurationSeconds, &sections, &scoring, &a.QuestionCount,
		&userAnswers, &correctAnswers, &result); err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		raw []byte
		dst interface{}
	}{
		{sections, &a.Sections},
		{scoring, &a.Scoring},
		{userAnswers, &a.UserAnswers},
		{correctAnswers, &a.CorrectAnswers},
		{result, &a.Result},
	} {
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("decode attempt %s: %w", a.ID, err)
		}
	}
	return &a, nil
}

func (r *AttemptRepository) queryAttempts(ctx context.Context, query string, args ...interface{}) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// GetAll returns every attempt in chronological order.
func (r *AttemptRepository) GetAll(ctx context.Context) ([]model.Attempt, error) {
	return r.queryAttempts(ctx,
		`SELECT `+attemptColumns+` FROM attempts ORDER BY submitted_at ASC, id ASC`)
}

// ListByExam returns one exam's attempts in chronological order, the shape
// the analytics aggregator expects.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID string) ([]model.Attempt, error) {
	return r.queryAttempts(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE exam_id = $1 ORDER BY submitted_at ASC, id ASC`,
		examID)
}

// ListRecentByExam returns the newest attempts first, capped at limit.
func (r *AttemptRepository) ListRecentByExam(ctx context.Context, examID string, limit int) ([]model.Attempt, error) {
	if limit < 1 {
		limit = 1
	}
	return r.queryAttempts(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE exam_id = $1 ORDER BY submitted_at DESC, id DESC LIMIT $2`,
		examID, limit)
}

func (r *AttemptRepository) GetByID(ctx context.Context, id string) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

func (r *AttemptRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attempts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// PurgeByExam deletes one exam's whole history and reports how many rows
// went away.
func (r *AttemptRepository) PurgeByExam(ctx context.Context, examID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attempts WHERE exam_id = $1`, examID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
