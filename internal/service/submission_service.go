package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/omrtrack/attempt-tracker/internal/scoring"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SubmissionService turns a submission into a graded, persisted attempt.
// The evaluation itself is pure; this service only assembles the inputs,
// appends the attempt record and publishes it to the live feed.
type SubmissionService struct {
	examService *ExamService
	attemptRepo *repository.AttemptRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewSubmissionService(
	examService *ExamService,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		examService: examService,
		attemptRepo: attemptRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades the submission against the exam's stored answer key and
// appends an immutable attempt record. Retried submissions are not
// deduplicated: each call produces an independent attempt.
func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmitAttemptRequest) (*model.Attempt, error) {
	profile, err := s.examService.Resolve(ctx, req.ExamID)
	if err != nil {
		return nil, err
	}
	correctAnswers, err := s.examService.AnswerKey(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	// Answers beyond the graded range are clipped before evaluation.
	questionCount := scoring.QuestionCount(correctAnswers, profile.Sections)
	userAnswers := model.NormalizeAnswerSet(req.Answers).Truncated(questionCount)

	sc := req.Scoring.Resolve(profile.DefaultScoring)

	duration := profile.DurationSeconds
	if req.DurationSeconds != nil {
		duration = *req.DurationSeconds
	}
	if duration < 60 {
		duration = 60
	}

	result := scoring.Evaluate(correctAnswers, userAnswers, profile.Sections, sc)

	attempt := &model.Attempt{
		ID:              model.NewAttemptID(),
		ExamID:          profile.ID,
		ExamTitle:       profile.Title,
		Subject:         profile.Subject,
		Year:            profile.Year,
		SubmittedAt:     time.Now().UTC(),
		DurationSeconds: duration,
		Sections:        profile.Sections,
		Scoring:         sc,
		QuestionCount:   result.QuestionCount,
		UserAnswers:     userAnswers,
		CorrectAnswers:  correctAnswers,
		Result:          result,
	}

	if err := s.attemptRepo.Append(ctx, attempt); err != nil {
		return nil, err
	}

	s.publish(ctx, attempt)

	s.log.Info().
		Str("attempt_id", attempt.ID).
		Str("exam_id", attempt.ExamID).
		Int("total_score", result.TotalScore).
		Msg("Attempt graded")

	return attempt, nil
}

// publish pushes the graded attempt onto the exam's live feed channel.
// Feed delivery is best effort; a Redis hiccup must not fail the submission.
func (s *SubmissionService) publish(ctx context.Context, attempt *model.Attempt) {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return
	}
	channel := config.CacheKey.AttemptFeedChannel(attempt.ExamID)
	if err := s.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attempt.ID).Msg("attempt feed publish failed")
	}
}
