package service

import (
	"context"

	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/omrtrack/attempt-tracker/internal/scoring"
)

// AnalyticsService recomputes analytics from the raw attempt history on
// every call. Nothing here is cached: the aggregators are cheap reductions
// and stale analytics are worse than slow ones.
type AnalyticsService struct {
	examService *ExamService
	attemptRepo *repository.AttemptRepository
}

func NewAnalyticsService(examService *ExamService, attemptRepo *repository.AttemptRepository) *AnalyticsService {
	return &AnalyticsService{
		examService: examService,
		attemptRepo: attemptRepo,
	}
}

// ForExam summarizes one exam's history. An unknown exam id simply has zero
// attempts and yields the empty summary.
func (s *AnalyticsService) ForExam(ctx context.Context, examID string) (model.ExamAnalytics, error) {
	attempts, err := s.attemptRepo.ListByExam(ctx, model.SanitizeID(examID))
	if err != nil {
		return model.ExamAnalytics{}, err
	}
	return scoring.AnalyzeExam(attempts), nil
}

// Global builds the cross-exam leaderboard and totals.
func (s *AnalyticsService) Global(ctx context.Context) (model.GlobalAnalytics, error) {
	profiles, err := s.examService.List(ctx)
	if err != nil {
		return model.GlobalAnalytics{}, err
	}
	attempts, err := s.attemptRepo.GetAll(ctx)
	if err != nil {
		return model.GlobalAnalytics{}, err
	}
	return scoring.AnalyzeGlobal(profiles, attempts), nil
}
