package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omrtrack/attempt-tracker/internal/model"
)

// AnswerKeyRepository persists per-exam answer keys. The store is
// independent of exam_profiles: keys survive profile deletion and a profile
// may exist without one. A missing key reads back as an empty set, never an
// error, since partial or absent coverage is legal.
type AnswerKeyRepository struct {
	pool *pgxpool.Pool
}

func NewAnswerKeyRepository(pool *pgxpool.Pool) *AnswerKeyRepository {
	return &AnswerKeyRepository{pool: pool}
}

func (r *AnswerKeyRepository) Get(ctx context.Context, examID string) (model.AnswerSet, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT answers FROM answer_keys WHERE exam_id = $1`, examID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AnswerSet{}, nil
	}
	if err != nil {
		return nil, err
	}

	var answers model.AnswerSet
	if err := json.Unmarshal(raw, &answers); err != nil {
		// Malformed persisted data degrades to an empty key rather than
		// blocking grading.
		return model.AnswerSet{}, nil
	}
	return model.NormalizeAnswerSet(answers), nil
}

func (r *AnswerKeyRepository) GetAll(ctx context.Context) (map[string]model.AnswerSet, error) {
	rows, err := r.pool.Query(ctx, `SELECT exam_id, answers FROM answer_keys ORDER BY exam_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]model.AnswerSet)
	for rows.Next() {
		var examID string
		var raw []byte
		if err := rows.Scan(&examID, &raw); err != nil {
			return nil, err
		}
		var answers model.AnswerSet
		if err := json.Unmarshal(raw, &answers); err != nil {
			answers = model.AnswerSet{}
		}
		keys[examID] = model.NormalizeAnswerSet(answers)
	}
	return keys, rows.Err()
}

// Replace upserts the whole key for one exam.
func (r *AnswerKeyRepository) Replace(ctx context.Context, examID string, answers model.AnswerSet) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO answer_keys (exam_id, answers)
		 VALUES ($1, $2)
		 ON CONFLICT (exam_id) DO UPDATE SET answers = EXCLUDED.answers, updated_at = NOW()`,
		examID, raw)
	return err
}

// EnsureExists creates an empty key for a new profile if none is stored yet.
func (r *AnswerKeyRepository) EnsureExists(ctx context.Context, examID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answer_keys (exam_id, answers)
		 VALUES ($1, '{}'::jsonb)
		 ON CONFLICT (exam_id) DO NOTHING`,
		examID)
	return err
}
