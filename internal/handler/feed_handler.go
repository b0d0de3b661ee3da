package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/model"
	"github.com/omrtrack/attempt-tracker/internal/response"
	"github.com/omrtrack/attempt-tracker/internal/service"
)

const (
	feedSnapshotLimit = 8
	keepAliveInterval = 30 * time.Second
)

// FeedHandler streams newly graded attempts for one exam over SSE. Each
// submission is fanned out through Redis Pub/Sub, so every connected client
// sees the same events regardless of which server instance graded them.
type FeedHandler struct {
	rdb            *redis.Client
	examService    *service.ExamService
	attemptService *service.AttemptService
	log            zerolog.Logger
}

func NewFeedHandler(
	rdb *redis.Client,
	examService *service.ExamService,
	attemptService *service.AttemptService,
	log zerolog.Logger,
) *FeedHandler {
	return &FeedHandler{
		rdb:            rdb,
		examService:    examService,
		attemptService: attemptService,
		log:            log.With().Str("component", "feed_handler").Logger(),
	}
}

// StreamExamFeed godoc
// GET /api/v1/exams/:id/feed
func (h *FeedHandler) StreamExamFeed(c *gin.Context) {
	profile, err := h.examService.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrProfileNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.sendSnapshot(c, profile)

	channelName := config.CacheKey.AttemptFeedChannel(profile.ID)
	pubsub := h.rdb.Subscribe(reqCtx, channelName)
	defer pubsub.Close()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	h.log.Info().Str("exam_id", profile.ID).Msg("Client attached to attempt feed SSE")

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Str("exam_id", profile.ID).Msg("Client disconnected from attempt feed SSE")
			return

		case msg := <-ch:
			// Published payloads are already JSON; forward them untouched.
			c.Writer.Write([]byte("data: {\"type\":\"attempt\",\"data\":"))
			c.Writer.Write([]byte(msg.Payload))
			c.Writer.Write([]byte("}\n\n"))
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			c.Writer.Write([]byte("data: "))
			c.Writer.Write(pingPayload)
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// sendSnapshot writes the most recent attempts as the first event so a new
// client starts from current state instead of an empty feed.
func (h *FeedHandler) sendSnapshot(c *gin.Context, profile *model.ExamProfile) {
	attempts, err := h.attemptService.Recent(c.Request.Context(), profile.ID, feedSnapshotLimit)
	if err != nil {
		h.log.Warn().Err(err).Str("exam_id", profile.ID).Msg("Failed to build feed snapshot")
		attempts = nil
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	c.SSEvent("message", map[string]interface{}{
		"type": "snapshot",
		"data": map[string]interface{}{
			"exam": map[string]interface{}{
				"id":    profile.ID,
				"title": profile.Title,
			},
			"attempts": attempts,
		},
	})
	c.Writer.Flush()
}
