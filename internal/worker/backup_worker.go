package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/omrtrack/attempt-tracker/internal/config"
	"github.com/omrtrack/attempt-tracker/internal/service"
)

// BackupWorker periodically writes a full ZIP backup of all stores to disk.
// A Redis lock makes sure only one instance per interval performs the
// backup when several servers share the same database.
type BackupWorker struct {
	exportService *service.ExportService
	rdb           *redis.Client
	dir           string
	interval      time.Duration
	log           zerolog.Logger
}

func NewBackupWorker(
	exportService *service.ExportService,
	rdb *redis.Client,
	dir string,
	interval time.Duration,
	log zerolog.Logger,
) *BackupWorker {
	return &BackupWorker{
		exportService: exportService,
		rdb:           rdb,
		dir:           dir,
		interval:      interval,
		log:           log.With().Str("component", "backup_worker").Logger(),
	}
}

// Start begins the periodic backup loop. Call in a goroutine.
func (w *BackupWorker) Start(ctx context.Context) {
	if w.dir == "" {
		w.log.Info().Msg("Backup directory not configured, worker disabled")
		return
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		w.log.Error().Err(err).Str("dir", w.dir).Msg("Cannot create backup directory")
		return
	}

	w.log.Info().Dur("interval", w.interval).Str("dir", w.dir).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *BackupWorker) runOnce(ctx context.Context) {
	// Lock TTL slightly under the interval so a crashed holder never blocks
	// the next round.
	ttl := w.interval - time.Minute
	if ttl <= 0 {
		ttl = w.interval
	}
	ok, err := w.rdb.SetNX(ctx, config.CacheKey.BackupLock(), 1, ttl).Result()
	if err != nil {
		w.log.Warn().Err(err).Msg("Backup lock check failed, proceeding without it")
	} else if !ok {
		w.log.Debug().Msg("Backup already taken by another instance, skipping")
		return
	}

	raw, err := w.exportService.BackupZip(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Backup build failed")
		return
	}

	name := fmt.Sprintf("backup_%s.zip", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		w.log.Error().Err(err).Str("path", path).Msg("Backup write failed")
		return
	}

	w.log.Info().Str("path", path).Int("bytes", len(raw)).Msg("Backup written")
}
