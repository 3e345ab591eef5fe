// Package ledger records and serves the timestamped headcount snapshots the
// external counting pipeline produces.
package ledger

import (
	"context"
	"math"

	"go.uber.org/zap"

	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

// Service-time estimation bounds, in minutes. Snapshots are assumed to be
// five minutes apart.
const (
	minServiceMinutes      = 5.0
	maxServiceMinutes      = 30.0
	defaultServiceMinutes  = 15.0
	sparseServiceMinutes   = 10.0
	snapshotIntervalMinute = 5.0
)

// Service is the occupancy ledger.
type Service struct {
	store  store.Store
	policy *authz.Policy
	logger *zap.Logger
}

// NewService creates an occupancy ledger service.
func NewService(s store.Store, policy *authz.Policy, logger *zap.Logger) *Service {
	return &Service{store: s, policy: policy, logger: logger}
}

// Latest returns the newest snapshot for the restaurant.
func (s *Service) Latest(ctx context.Context, restaurantID int64) (*model.OccupancyRecord, error) {
	if _, err := s.store.RestaurantByID(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.store.LatestRecord(ctx, restaurantID)
}

// Recent returns up to n snapshots newest-first. Only the restaurant's
// owning manager may read them.
func (s *Service) Recent(ctx context.Context, subject *model.User, n int, restaurantName string) ([]model.OccupancyRecord, error) {
	restaurant, err := s.store.RestaurantByName(ctx, restaurantName)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Allow(subject, authz.ActionViewRecords, restaurant.ManagerID); err != nil {
		return nil, err
	}
	return s.store.RecentRecords(ctx, n, restaurant.ID)
}

// ByDatePrefix returns the snapshots whose time label starts with prefix,
// newest-first. Labels are opaque strings; the match is pure string
// comparison.
func (s *Service) ByDatePrefix(ctx context.Context, subject *model.User, prefix, restaurantName string) ([]model.OccupancyRecord, error) {
	restaurant, err := s.store.RestaurantByName(ctx, restaurantName)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Allow(subject, authz.ActionViewRecords, restaurant.ManagerID); err != nil {
		return nil, err
	}
	return s.store.RecordsByPrefix(ctx, prefix, restaurant.ID)
}

// BulkImport inserts one snapshot per label->count entry for the restaurant.
func (s *Service) BulkImport(ctx context.Context, counts map[string]int, restaurantID int64) error {
	if _, err := s.store.RestaurantByID(ctx, restaurantID); err != nil {
		return err
	}
	if err := s.store.BulkImportRecords(ctx, counts, restaurantID); err != nil {
		return err
	}
	s.logger.Info("occupancy records imported",
		zap.Int("count", len(counts)),
		zap.Int64("restaurant_id", restaurantID))
	return nil
}

// EstimateServiceTime derives a per-customer service time in minutes from
// snapshots ordered newest-first. Every headcount decrease between adjacent
// snapshots is read as customers served within one five-minute interval; the
// mean of those samples is clamped to [5,30]. With no decreasing pair the
// estimate defaults to 15 minutes, and to 10 when fewer than two snapshots
// exist.
func EstimateServiceTime(records []model.OccupancyRecord) float64 {
	if len(records) < 2 {
		return sparseServiceMinutes
	}

	total := 0.0
	samples := 0
	for i := 0; i < len(records)-1; i++ {
		newer, older := records[i], records[i+1]
		if older.Headcount > newer.Headcount {
			served := older.Headcount - newer.Headcount
			total += snapshotIntervalMinute / float64(served)
			samples++
		}
	}
	if samples == 0 {
		return defaultServiceMinutes
	}

	mean := total / float64(samples)
	return math.Max(minServiceMinutes, math.Min(maxServiceMinutes, mean))
}
