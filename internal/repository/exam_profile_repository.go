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

// ErrNoRows is returned when a lookup matches nothing.
var ErrNoRows = pgx.ErrNoRows

// ExamProfileRepository persists exam profiles. Sections and scoring are
// stored as JSONB; sections keep their authored order because they are a
// JSON array, never an object.
type ExamProfileRepository struct {
	pool *pgxpool.Pool
}

func NewExamProfileRepository(pool *pgxpool.Pool) *ExamProfileRepository {
	return &ExamProfileRepository{pool: pool}
}

const profileColumns = `id, title, subject, year, duration_seconds, sections, default_scoring, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.ExamProfile, error) {
	var p model.ExamProfile
	var sections, scoring []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Subject, &p.Year, &p.DurationSeconds, &sections, &scoring, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &p.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal(scoring, &p.DefaultScoring); err != nil {
		return nil, fmt.Errorf("decode default_scoring: %w", err)
	}
	return &p, nil
}

func (r *ExamProfileRepository) GetAll(ctx context.Context) ([]model.ExamProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM exam_profiles ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.ExamProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *ExamProfileRepository) GetByID(ctx context.Context, id string) (*model.ExamProfile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM exam_profiles WHERE id = $1`, id))
}

func (r *ExamProfileRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exam_profiles WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *ExamProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exam_profiles`).Scan(&count)
	return count, err
}

func (r *ExamProfileRepository) Create(ctx context.Context, p *model.ExamProfile) error {
	sections, scoring, err := encodeProfileJSON(p)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_profiles (id, title, subject, year, duration_seconds, sections, default_scoring)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Subject, p.Year, p.DurationSeconds, sections, scoring,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update rewrites the profile stored under currentID; the id itself may
// change, attempts keep referencing the old id (soft reference).
func (r *ExamProfileRepository) Update(ctx context.Context, currentID string, p *model.ExamProfile) error {
	sections, scoring, err := encodeProfileJSON(p)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE exam_profiles
		 SET id = $1, title = $2, subject = $3, year = $4, duration_seconds = $5,
		     sections = $6, default_scoring = $7, updated_at = NOW()
		 WHERE id = $8`,
		p.ID, p.Title, p.Subject, p.Year, p.DurationSeconds, sections, scoring, currentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *ExamProfileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func encodeProfileJSON(p *model.ExamProfile) (sections, scoring []byte, err error) {
	sections, err = json.Marshal(p.Sections)
	if err != nil {
		return nil, nil, fmt.Errorf("encode sections: %w", err)
	}
	scoring, err = json.Marshal(p.DefaultScoring)
	if err != nil {
		return nil, nil, fmt.Errorf("encode default_scoring: %w", err)
	}
	return sections, scoring, nil
}

// IsNotFound reports whether err means the row did not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
