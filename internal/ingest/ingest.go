// Package ingest watches a drop directory for headcount files produced by the
// external counting pipeline and imports them as occupancy snapshots.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"restaurant-queue-backend/config"
	"restaurant-queue-backend/internal/store"
)

const fileSuffix = "_count.txt"

// Service periodically imports headcount files.
type Service struct {
	cfg    *config.Config
	store  store.Store
	logger *zap.Logger
}

// NewService creates an ingest service.
func NewService(cfg *config.Config, s store.Store, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, store: s, logger: logger}
}

// Run starts the import loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Ingest.Enabled {
		s.logger.Info("ingest is disabled, not starting")
		return
	}
	s.logger.Info("starting ingest service",
		zap.String("dir", s.cfg.Ingest.Dir),
		zap.Duration("interval", s.cfg.Ingest.Interval))

	s.ImportOnce(ctx)

	timer := time.NewTimer(s.cfg.Ingest.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ingest service shutting down")
			return
		case <-timer.C:
			s.ImportOnce(ctx)
			timer.Reset(s.cfg.Ingest.Interval)
		}
	}
}

// ImportOnce scans the drop directory and imports every well-formed headcount
// file. A file named <label>_count.txt containing a single integer becomes a
// snapshot with that label. Malformed files are logged and skipped.
func (s *Service) ImportOnce(ctx context.Context) {
	entries, err := os.ReadDir(s.cfg.Ingest.Dir)
	if err != nil {
		s.logger.Warn("cannot read ingest directory",
			zap.String("dir", s.cfg.Ingest.Dir), zap.Error(err))
		return
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}

		body, err := os.ReadFile(filepath.Join(s.cfg.Ingest.Dir, entry.Name()))
		if err != nil {
			s.logger.Warn("cannot read headcount file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		headcount, err := strconv.Atoi(strings.TrimSpace(string(body)))
		if err != nil {
			s.logger.Warn("skipping malformed headcount file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		label := strings.TrimSuffix(entry.Name(), fileSuffix)
		counts[label] = headcount
	}

	if len(counts) == 0 {
		return
	}

	if err := s.store.BulkImportRecords(ctx, counts, s.cfg.Ingest.RestaurantID); err != nil {
		s.logger.Error("headcount import failed", zap.Error(err))
		return
	}
	s.logger.Info("headcount files imported", zap.Int("count", len(counts)))
}
