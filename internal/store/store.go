package store

import (
	"context"

	"gorm.io/gorm"

	"restaurant-queue-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Accounts
	CreateUser(ctx context.Context, user *model.User) error
	UserByName(ctx context.Context, name string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error
	DeleteUserCascade(ctx context.Context, userID int64) error

	// Restaurants
	CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	RestaurantByName(ctx context.Context, name string) (*model.Restaurant, error)
	RestaurantByID(ctx context.Context, id int64) (*model.Restaurant, error)
	AllRestaurants(ctx context.Context) ([]model.Restaurant, error)
	RestaurantsByManager(ctx context.Context, managerID int64) ([]model.Restaurant, error)
	DeleteRestaurant(ctx context.Context, restaurant *model.Restaurant) error

	// Appointments
	ReserveAppointment(ctx context.Context, userID int64, restaurant *model.Restaurant) (*model.Appointment, error)
	AppointmentByID(ctx context.Context, id int64) (*model.Appointment, error)
	SaveAppointment(ctx context.Context, appointment *model.Appointment) error
	DeleteAppointment(ctx context.Context, id int64) error
	AppointmentsByUser(ctx context.Context, userID int64) ([]model.Appointment, error)
	WaitingByManager(ctx context.Context, managerID int64) ([]model.Appointment, error)
	WaitingByRestaurant(ctx context.Context, restaurantID int64) ([]model.Appointment, error)
	CountUniqueWaiting(ctx context.Context, restaurantID int64) (int, error)

	// Occupancy records
	LatestRecord(ctx context.Context, restaurantID int64) (*model.OccupancyRecord, error)
	RecentRecords(ctx context.Context, n int, restaurantID int64) ([]model.OccupancyRecord, error)
	RecordsByPrefix(ctx context.Context, prefix string, restaurantID int64) ([]model.OccupancyRecord, error)
	BulkImportRecords(ctx context.Context, counts map[string]int, restaurantID int64) error

	// Approval requests
	CreateApproval(ctx context.Context, request *model.ApprovalRequest) error
	PendingApprovals(ctx context.Context) ([]model.ApprovalRequest, error)
	ResolveApproval(ctx context.Context, requestID int64, approved bool) (*model.ApprovalRequest, error)

	// Push subscriptions
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	SubscriptionsByUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for migrations and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
