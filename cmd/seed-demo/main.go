package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/database"
	"github.com/omrtrack/attempt-tracker/internal/logger"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/repository"
	"github.com/omrtrack/attempt-tracker/internal/scoring"
	"github.com/omrtrack/attempt-tracker/internal/service"
)

// Seeds the built-in demo exam profile, a generated answer key and a handful
// of graded attempts so a fresh install has data to look at.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	profileRepo := repository.NewExamProfileRepository(pool)
	keyRepo := repository.NewAnswerKeyRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	examService := service.NewExamService(profileRepo, keyRepo, rdb, log)
	submissionService := service.NewSubmissionService(examService, attemptRepo, rdb, log)

	fmt.Println("=== Seeding demo exam ===")

	profile := model.DefaultProfile()
	exists, err := profileRepo.Exists(ctx, profile.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check existing profile")
	}
	if exists {
		fmt.Printf("Profile %q already present, skipping create\n", profile.ID)
	} else {
		if err := profileRepo.Create(ctx, &profile); err != nil {
			log.Fatal().Err(err).Msg("Failed to create demo profile")
		}
		fmt.Printf("Created profile %q\n", profile.ID)
	}

	rng := rand.New(rand.NewSource(42))

	questionCount := scoring.QuestionCount(nil, profile.Sections)
	key := make(model.AnswerSet, questionCount)
	for q := 1; q <= questionCount; q++ {
		key[q] = rng.Intn(4) + 1
	}
	if _, err := examService.ReplaceAnswerKey(ctx, profile.ID, key); err != nil {
		log.Fatal().Err(err).Msg("Failed to store demo answer key")
	}
	fmt.Printf("Stored answer key with %d questions\n", len(key))

	const attemptCount = 6
	for i := 0; i < attemptCount; i++ {
		answers := make(map[int]int, questionCount)
		for q := 1; q <= questionCount; q++ {
			// Leave roughly one in five questions blank.
			if rng.Intn(5) == 0 {
				continue
			}
			// Answer correctly with growing probability so analytics show
			// an improvement trend.
			if rng.Intn(10) < 4+i {
				answers[q] = key[q]
			} else {
				answers[q] = rng.Intn(4) + 1
			}
		}

		attempt, err := submissionService.Submit(ctx, &model.SubmitAttemptRequest{
			ExamID:  profile.ID,
			Answers: answers,
		})
		if err != nil {
			fmt.Printf("Error grading demo attempt %d: %v\n", i+1, err)
			continue
		}
		fmt.Printf("Graded attempt %s (score %d)\n", attempt.ID, attempt.Result.TotalScore)
	}

	fmt.Println("\nSeed completed!")
}
