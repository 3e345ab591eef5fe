// Package queue implements admission, lifecycle and visibility of
// appointments: the waitlist core of the system.
package queue

import (
	"context"

	"go.uber.org/zap"

	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

// Notifier receives the id of a freshly completed appointment. The webpush
// worker pool implements it; tests swap in a recorder.
type Notifier interface {
	Dispatch(appointmentID int64)
}

// Service is the queue manager.
type Service struct {
	store    store.Store
	policy   *authz.Policy
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a queue manager. notifier may be nil when completion
// pushes are not configured.
func NewService(s store.Store, policy *authz.Policy, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{store: s, policy: policy, notifier: notifier, logger: logger}
}

// Reserve admits a customer into a restaurant's waitlist. Admission succeeds
// only while the latest occupancy headcount plus the restaurant's waiting
// appointments stays within its capacity; the count and the insert share one
// transaction.
func (s *Service) Reserve(ctx context.Context, customerName, restaurantName string) (*model.Appointment, error) {
	customer, err := s.store.UserByName(ctx, customerName)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Allow(customer, authz.ActionReserve, 0); err != nil {
		return nil, err
	}

	restaurant, err := s.store.RestaurantByName(ctx, restaurantName)
	if err != nil {
		return nil, err
	}

	appointment, err := s.store.ReserveAppointment(ctx, customer.ID, restaurant)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment reserved",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("customer_id", customer.ID),
		zap.Int64("restaurant_id", restaurant.ID))
	return appointment, nil
}

// Cancel hard-deletes an appointment. Only the owning customer may cancel;
// a second cancel of the same id fails with NotFound.
func (s *Service) Cancel(ctx context.Context, subject *model.User, appointmentID int64) error {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := s.policy.Allow(subject, authz.ActionCancel, appointment.UserID); err != nil {
		return err
	}
	return s.store.DeleteAppointment(ctx, appointment.ID)
}

// Complete transitions waiting -> completed. Only the manager owning the
// appointment's restaurant may complete it. Completing an already completed
// appointment is a no-op that re-persists the terminal status.
func (s *Service) Complete(ctx context.Context, subject *model.User, appointmentID int64) error {
	appointment, err := s.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	restaurant, err := s.store.RestaurantByID(ctx, appointment.RestaurantID)
	if err != nil {
		return err
	}
	if err := s.policy.Allow(subject, authz.ActionComplete, restaurant.ManagerID); err != nil {
		return err
	}

	wasWaiting := appointment.Status == model.AppointmentWaiting
	appointment.Status = model.AppointmentCompleted
	if err := s.store.SaveAppointment(ctx, appointment); err != nil {
		return err
	}

	if wasWaiting && s.notifier != nil {
		s.notifier.Dispatch(appointment.ID)
	}
	return nil
}

// ListMine returns every appointment owned by the subject, any status.
func (s *Service) ListMine(ctx context.Context, subject *model.User) ([]model.Appointment, error) {
	if err := s.policy.Allow(subject, authz.ActionListOwn, 0); err != nil {
		return nil, err
	}
	return s.store.AppointmentsByUser(ctx, subject.ID)
}

// ListForManager returns the waiting appointments across every restaurant
// the subject manages.
func (s *Service) ListForManager(ctx context.Context, subject *model.User) ([]model.Appointment, error) {
	if err := s.policy.Allow(subject, authz.ActionListForManager, 0); err != nil {
		return nil, err
	}
	return s.store.WaitingByManager(ctx, subject.ID)
}

// CountUniqueWaiting counts distinct customers waiting at the restaurant.
func (s *Service) CountUniqueWaiting(ctx context.Context, restaurantID int64) (int, error) {
	if _, err := s.store.RestaurantByID(ctx, restaurantID); err != nil {
		return 0, err
	}
	return s.store.CountUniqueWaiting(ctx, restaurantID)
}

// Position returns the customer's 1-based rank in the restaurant's waitlist.
// Each customer is represented by their earliest (lowest-id) waiting
// appointment; the deduplicated set is ranked by id ascending. Returns
// store.ErrNotFound when the customer has no waiting appointment there.
func (s *Service) Position(ctx context.Context, customerID, restaurantID int64) (int, error) {
	waiting, err := s.store.WaitingByRestaurant(ctx, restaurantID)
	if err != nil {
		return 0, err
	}

	// Rows arrive ordered by id ascending, so the first appointment seen for
	// a customer is their earliest.
	seen := make(map[int64]bool, len(waiting))
	rank := 0
	for _, appointment := range waiting {
		if seen[appointment.UserID] {
			continue
		}
		seen[appointment.UserID] = true
		rank++
		if appointment.UserID == customerID {
			return rank, nil
		}
	}
	return 0, store.ErrNotFound
}
