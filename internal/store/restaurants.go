package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurant-queue-backend/internal/model"
)

func (s *gormStore) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	var existing model.Restaurant
	err := s.db.WithContext(ctx).Where("name = ?", restaurant.Name).First(&existing).Error
	if err == nil {
		return ErrDuplicateName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(restaurant).Error
}

func (s *gormStore) RestaurantByName(ctx context.Context, name string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (s *gormStore) RestaurantByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := s.db.WithContext(ctx).First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (s *gormStore) AllRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := s.db.WithContext(ctx).Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (s *gormStore) RestaurantsByManager(ctx context.Context, managerID int64) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := s.db.WithContext(ctx).Where("manager_id = ?", managerID).Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (s *gormStore) DeleteRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	return s.db.WithContext(ctx).Delete(restaurant).Error
}
