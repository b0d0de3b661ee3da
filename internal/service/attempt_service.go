package service

import (
	"context"
	"errors"

	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/rs/zerolog"
)

var ErrAttemptNotFound = errors.New("attempt not found")

const defaultRecentLimit = 8

// AttemptService exposes read and administrative delete operations over the
// attempt history. Attempts are immutable; there is no update path.
type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	log         zerolog.Logger
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// Recent returns the newest attempts for one exam, newest first.
func (s *AttemptService) Recent(ctx context.Context, examID string, limit int) ([]model.Attempt, error) {
	if limit < 1 {
		limit = defaultRecentLimit
	}
	return s.attemptRepo.ListRecentByExam(ctx, model.SanitizeID(examID), limit)
}

func (s *AttemptService) Get(ctx context.Context, id string) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrAttemptNotFound
	}
	return attempt, err
}

func (s *AttemptService) Delete(ctx context.Context, id string) error {
	err := s.attemptRepo.Delete(ctx, id)
	if repository.IsNotFound(err) {
		return ErrAttemptNotFound
	}
	if err == nil {
		s.log.Info().Str("attempt_id", id).Msg("Attempt deleted")
	}
	return err
}

// PurgeByExam wipes one exam's history and returns the number of removed
// attempts.
func (s *AttemptService) PurgeByExam(ctx context.Context, examID string) (int64, error) {
	removed, err := s.attemptRepo.PurgeByExam(ctx, model.SanitizeID(examID))
	if err == nil {
		s.log.Info().Str("exam_id", examID).Int64("removed", removed).Msg("Attempts purged")
	}
	return removed, err
}
