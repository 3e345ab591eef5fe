package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurant-queue-backend/internal/model"
)

// ReserveAppointment runs capacity admission and the insert in one
// transaction so the read-count-then-write sequence cannot interleave with a
// committed concurrent reservation. Admission succeeds only while
// occupancy + waiting(restaurant) stays within the restaurant's capacity;
// the in-flight count is scoped to the target restaurant.
func (s *gormStore) ReserveAppointment(ctx context.Context, userID int64, restaurant *model.Restaurant) (*model.Appointment, error) {
	appointment := &model.Appointment{
		UserID:       userID,
		RestaurantID: restaurant.ID,
		Status:       model.AppointmentWaiting,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest model.OccupancyRecord
		err := tx.Where("restaurant_id = ?", restaurant.ID).
			Order("time_label DESC, id DESC").
			First(&latest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoOccupancy
		}
		if err != nil {
			return err
		}

		var inFlight int64
		if err := tx.Model(&model.Appointment{}).
			Where("restaurant_id = ? AND status = ?", restaurant.ID, model.AppointmentWaiting).
			Count(&inFlight).Error; err != nil {
			return err
		}

		if latest.Headcount+int(inFlight) > restaurant.MaxCapacity {
			return ErrCapacityExceeded
		}
		return tx.Create(appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *gormStore) AppointmentByID(ctx context.Context, id int64) (*model.Appointment, error) {
	var appointment model.Appointment
	err := s.db.WithContext(ctx).First(&appointment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *gormStore) SaveAppointment(ctx context.Context, appointment *model.Appointment) error {
	return s.db.WithContext(ctx).Save(appointment).Error
}

func (s *gormStore) DeleteAppointment(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&model.Appointment{}, id).Error
}

func (s *gormStore) AppointmentsByUser(ctx context.Context, userID int64) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// WaitingByManager returns the waiting appointments across every restaurant
// the manager owns.
func (s *gormStore) WaitingByManager(ctx context.Context, managerID int64) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := s.db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = appointments.restaurant_id").
		Where("restaurants.manager_id = ? AND appointments.status = ?", managerID, model.AppointmentWaiting).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *gormStore) WaitingByRestaurant(ctx context.Context, restaurantID int64) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND status = ?", restaurantID, model.AppointmentWaiting).
		Order("id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// CountUniqueWaiting counts distinct customers with a waiting appointment at
// the restaurant; a customer holding several slots counts once.
func (s *gormStore) CountUniqueWaiting(ctx context.Context, restaurantID int64) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, model.AppointmentWaiting).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
