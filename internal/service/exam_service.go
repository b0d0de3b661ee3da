package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/omrtrack/attempt-tracker/internal/scoring"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain Errors
var (
	ErrProfileNotFound = errors.New("exam profile not found")
	ErrProfileExists   = errors.New("exam id already exists")
	ErrLastProfile     = errors.New("at least one profile must remain")
	ErrInvalidProfile  = errors.New("exam id and at least one valid section are required")
)

// ExamService handles exam profile business logic and Redis caching.
// Profiles and answer keys are cached so the submission path grades without
// touching PostgreSQL for configuration reads.
type ExamService struct {
	profileRepo *repository.ExamProfileRepository
	keyRepo     *repository.AnswerKeyRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewExamService(
	profileRepo *repository.ExamProfileRepository,
	keyRepo *repository.AnswerKeyRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		profileRepo: profileRepo,
		keyRepo:     keyRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "exam_service").Logger(),
	}
}

// List returns every profile. An empty store yields the built-in default so
// the submission flow always has a profile to grade against.
func (s *ExamService) List(ctx context.Context) ([]model.ExamProfile, error) {
	profiles, err := s.profileRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return []model.ExamProfile{model.DefaultProfile()}, nil
	}
	return profiles, nil
}

// Get returns one profile by id.
func (s *ExamService) Get(ctx context.Context, id string) (*model.ExamProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, model.SanitizeID(id))
	if repository.IsNotFound(err) {
		return nil, ErrProfileNotFound
	}
	return profile, err
}

// Resolve maps an exam id to a profile for grading. Unknown ids fall back to
// the first profile rather than failing; "no matching exam" is a collaborator
// concern, never a grading error.
func (s *ExamService) Resolve(ctx context.Context, id string) (*model.ExamProfile, error) {
	id = model.SanitizeID(id)

	if profile, ok := s.cachedProfile(ctx, id); ok {
		return profile, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err == nil {
		s.warmProfile(ctx, profile)
		return profile, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	profiles, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

// AnswerKey returns an exam's normalized answer key, preferring the cache.
func (s *ExamService) AnswerKey(ctx context.Context, examID string) (model.AnswerSet, error) {
	cacheKey := config.CacheKey.ExamAnswerKey(examID)
	if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var answers model.AnswerSet
		if json.Unmarshal(raw, &answers) == nil {
			return answers, nil
		}
	}

	answers, err := s.keyRepo.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(answers); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, 0).Err(); err != nil {
			s.log.Warn().Err(err).Str("exam_id", examID).Msg("answer key cache write failed")
		}
	}
	return answers, nil
}

// ReplaceAnswerKey normalizes and stores a new key, then refreshes the cache.
// Out-of-range entries are dropped silently before they ever reach grading.
func (s *ExamService) ReplaceAnswerKey(ctx context.Context, examID string, raw map[int]int) (model.AnswerSet, error) {
	examID = model.SanitizeID(examID)
	if _, err := s.Get(ctx, examID); err != nil {
		return nil, err
	}

	answers := model.NormalizeAnswerSet(raw)
	if err := s.keyRepo.Replace(ctx, examID, answers); err != nil {
		return nil, err
	}
	s.warmAnswerKey(ctx, examID, answers)
	return answers, nil
}

// Create stores a new profile and makes sure an (empty) answer key exists
// for it.
func (s *ExamService) Create(ctx context.Context, req *model.SaveExamProfileRequest) (*model.ExamProfile, error) {
	profile, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.profileRepo.Exists(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProfileExists
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.keyRepo.EnsureExists(ctx, profile.ID); err != nil {
		return nil, err
	}
	s.warmProfile(ctx, profile)

	s.log.Info().Str("exam_id", profile.ID).Msg("Exam profile created")
	return profile, nil
}

// Update rewrites a profile. Renaming the id is allowed; existing attempts
// keep the old id (soft reference, intentionally not migrated).
func (s *ExamService) Update(ctx context.Context, currentID string, req *model.SaveExamProfileRequest) (*model.ExamProfile, error) {
	currentID = model.SanitizeID(currentID)
	profile, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	if profile.ID != currentID {
		exists, err := s.profileRepo.Exists(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrProfileExists
		}
	}

	err = s.profileRepo.Update(ctx, currentID, profile)
	if repository.IsNotFound(err) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if profile.ID != currentID {
		s.invalidate(ctx, currentID)
		if err := s.keyRepo.EnsureExists(ctx, profile.ID); err != nil {
			return nil, err
		}
	}
	s.warmProfile(ctx, profile)

	return profile, nil
}

// Delete removes a profile but never its attempts. The last remaining
// profile cannot be deleted.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	id = model.SanitizeID(id)

	count, err := s.profileRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastProfile
	}

	err = s.profileRepo.Delete(ctx, id)
	if repository.IsNotFound(err) {
		return ErrProfileNotFound
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.log.Info().Str("exam_id", id).Msg("Exam profile deleted")
	return nil
}

// Clone duplicates a profile under a derived id and copies its answer key.
func (s *ExamService) Clone(ctx context.Context, sourceID string) (*model.ExamProfile, error) {
	source, err := s.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:3]
	clone := *source
	clone.ID = model.SanitizeID(fmt.Sprintf("%s-copy-%s", source.ID, suffix))
	clone.Title = source.Title + " (Copy)"

	if err := s.profileRepo.Create(ctx, &clone); err != nil {
		return nil, err
	}

	answers, err := s.keyRepo.Get(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if err := s.keyRepo.Replace(ctx, clone.ID, answers); err != nil {
		return nil, err
	}
	s.warmProfile(ctx, &clone)
	s.warmAnswerKey(ctx, clone.ID, answers)

	s.log.Info().Str("source", source.ID).Str("clone", clone.ID).Msg("Exam profile cloned")
	return &clone, nil
}

// Validate surfaces section layout warnings for an administrator. Warnings
// are informational only; they never block grading.
func (s *ExamService) Validate(ctx context.Context, id string) ([]string, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	answers, err := s.keyRepo.Get(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return scoring.ValidateSections(profile.Sections, answers.MaxQuestion()), nil
}

// PrewarmAllCaches loads every profile and answer key into Redis, so the
// first submissions after boot skip PostgreSQL for configuration reads.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	profiles, err := s.profileRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range profiles {
		s.warmProfile(ctx, &profiles[i])
		answers, err := s.keyRepo.Get(ctx, profiles[i].ID)
		if err != nil {
			return err
		}
		s.warmAnswerKey(ctx, profiles[i].ID, answers)
	}
	s.log.Info().Int("profiles", len(profiles)).Msg("Exam caches prewarmed")
	return nil
}

func (s *ExamService) normalize(req *model.SaveExamProfileRequest) (*model.ExamProfile, error) {
	id := model.SanitizeID(req.ID)
	sections := model.NormalizeSections(req.Sections)
	if id == "" || len(sections) == 0 {
		return nil, ErrInvalidProfile
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = id
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "General"
	}
	year := strings.TrimSpace(req.Year)
	if year == "" {
		year = "N/A"
	}
	duration := req.DurationSeconds
	if duration < 60 {
		duration = model.DefaultDurationSeconds
	}

	return &model.ExamProfile{
		ID:              id,
		Title:           title,
		Subject:         subject,
		Year:            year,
		DurationSeconds: duration,
		Sections:        sections,
		DefaultScoring:  req.DefaultScoring.Resolve(model.DefaultScoring),
	}, nil
}

func (s *ExamService) cachedProfile(ctx context.Context, id string) (*model.ExamProfile, bool) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ExamProfileKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var profile model.ExamProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

func (s *ExamService) warmProfile(ctx context.Context, profile *model.ExamProfile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamProfileKey(profile.ID), raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", profile.ID).Msg("profile cache write failed")
	}
}

func (s *ExamService) warmAnswerKey(ctx context.Context, examID string, answers model.AnswerSet) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.ExamAnswerKey(examID), raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID).Msg("answer key cache write failed")
	}
}

func (s *ExamService) invalidate(ctx context.Context, examID string) {
	keys := []string{
		config.CacheKey.ExamProfileKey(examID),
		config.CacheKey.ExamAnswerKey(examID),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID).Msg("cache invalidation failed")
	}
}
