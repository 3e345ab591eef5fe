package store

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"restaurant-queue-backend/internal/model"
)

// LatestRecord returns the snapshot with the greatest time label for the
// restaurant. Labels are compared as strings.
func (s *gormStore) LatestRecord(ctx context.Context, restaurantID int64) (*model.OccupancyRecord, error) {
	var record model.OccupancyRecord
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("time_label DESC, id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOccupancy
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *gormStore) RecentRecords(ctx context.Context, n int, restaurantID int64) ([]model.OccupancyRecord, error) {
	var records []model.OccupancyRecord
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("time_label DESC, id DESC").
		Limit(n).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *gormStore) RecordsByPrefix(ctx context.Context, prefix string, restaurantID int64) ([]model.OccupancyRecord, error) {
	var records []model.OccupancyRecord
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND time_label LIKE ?", restaurantID, prefix+"%").
		Order("time_label DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BulkImportRecords inserts one snapshot per map entry, in label order so row
// ids follow the timeline of the imported batch.
func (s *gormStore) BulkImportRecords(ctx context.Context, counts map[string]int, restaurantID int64) error {
	if len(counts) == 0 {
		return nil
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	records := make([]model.OccupancyRecord, 0, len(labels))
	for _, label := range labels {
		records = append(records, model.OccupancyRecord{
			RestaurantID: restaurantID,
			TimeLabel:    label,
			Headcount:    counts[label],
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}
