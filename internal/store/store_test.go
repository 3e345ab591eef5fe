package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-queue-backend/internal/db"
	"restaurant-queue-backend/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive across queries.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB)
}

func seedCustomer(t *testing.T, s Store, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Password: "x",
		Role:     model.RoleCustomer,
		Status:   model.StatusApproved,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedRestaurant(t *testing.T, s Store, name string, managerID int64, capacity int) *model.Restaurant {
	t.Helper()
	restaurant := &model.Restaurant{
		Name:        name,
		ManagerID:   managerID,
		Location:    "downtown",
		MaxCapacity: capacity,
	}
	require.NoError(t, s.CreateRestaurant(context.Background(), restaurant))
	return restaurant
}

func TestCreateUserDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedCustomer(t, s, "alice")
	err := s.CreateUser(ctx, &model.User{
		Name: "alice", Password: "y", Role: model.RoleCustomer, Status: model.StatusApproved,
	})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestUserByNameNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UserByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReserveAppointmentRequiresOccupancy(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := seedCustomer(t, s, "alice")
	restaurant := seedRestaurant(t, s, "Noodle House", 99, 10)

	_, err := s.ReserveAppointment(ctx, customer.ID, restaurant)
	assert.ErrorIs(t, err, ErrNoOccupancy)
}

func TestReserveAppointmentCapacity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := seedCustomer(t, s, "alice")
	restaurant := seedRestaurant(t, s, "Noodle House", 99, 10)
	other := seedRestaurant(t, s, "Burger Barn", 99, 10)

	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{"6_09_12_00": 8}, restaurant.ID))
	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{"6_09_12_00": 8}, other.ID))

	// 8 occupied + 1 waiting <= 10: admitted.
	_, err := s.ReserveAppointment(ctx, customer.ID, restaurant)
	require.NoError(t, err)

	// Push the waiting count to 3. 8 + 3 > 10 fails on the next attempt.
	for _, name := range []string{"bob", "carol"} {
		u := seedCustomer(t, s, name)
		_, err := s.ReserveAppointment(ctx, u.ID, restaurant)
		require.NoError(t, err)
	}
	late := seedCustomer(t, s, "dave")
	_, err = s.ReserveAppointment(ctx, late.ID, restaurant)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// A full waitlist elsewhere does not affect the other restaurant.
	_, err = s.ReserveAppointment(ctx, late.ID, other)
	assert.NoError(t, err)
}

func TestCountUniqueWaitingDeduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := seedCustomer(t, s, "alice")
	restaurant := seedRestaurant(t, s, "Noodle House", 99, 100)
	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{"6_09_12_00": 0}, restaurant.ID))

	_, err := s.ReserveAppointment(ctx, customer.ID, restaurant)
	require.NoError(t, err)
	_, err = s.ReserveAppointment(ctx, customer.ID, restaurant)
	require.NoError(t, err)

	count, err := s.CountUniqueWaiting(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordsOrderingAndPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	restaurant := seedRestaurant(t, s, "Noodle House", 99, 10)
	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{
		"6_09_12_00": 5,
		"6_09_12_05": 7,
		"6_10_12_00": 3,
	}, restaurant.ID))

	latest, err := s.LatestRecord(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, "6_10_12_00", latest.TimeLabel)
	assert.Equal(t, 3, latest.Headcount)

	recent, err := s.RecentRecords(ctx, 2, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "6_10_12_00", recent[0].TimeLabel)
	assert.Equal(t, "6_09_12_05", recent[1].TimeLabel)

	day, err := s.RecordsByPrefix(ctx, "6_09", restaurant.ID)
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "6_09_12_05", day[0].TimeLabel)
}

func TestResolveApprovalTwice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	applicant := &model.User{
		Name: "mgr", Password: "x", Role: model.RoleManager, Status: model.StatusPending,
	}
	require.NoError(t, s.CreateUser(ctx, applicant))
	request := &model.ApprovalRequest{ApplicantID: applicant.ID}
	require.NoError(t, s.CreateApproval(ctx, request))

	resolved, err := s.ResolveApproval(ctx, request.ID, true)
	require.NoError(t, err)
	assert.True(t, resolved.Handled)
	assert.Equal(t, model.StatusApproved, resolved.Applicant.Status)

	_, err = s.ResolveApproval(ctx, request.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyHandled)

	// The rejected second resolve did not touch the applicant.
	reloaded, err := s.UserByID(ctx, applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, reloaded.Status)
}

func TestResolveApprovalReject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	applicant := &model.User{
		Name: "mgr", Password: "x", Role: model.RoleManager, Status: model.StatusPending,
	}
	require.NoError(t, s.CreateUser(ctx, applicant))
	request := &model.ApprovalRequest{ApplicantID: applicant.ID}
	require.NoError(t, s.CreateApproval(ctx, request))

	resolved, err := s.ResolveApproval(ctx, request.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, resolved.Applicant.Status)

	pending, err := s.PendingApprovals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpsertSubscription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedCustomer(t, s, "alice")
	bob := seedCustomer(t, s, "bob")

	sub := &model.PushSubscription{
		Endpoint: "https://push.example/abc", P256DH: "p1", Auth: "a1", UserID: alice.ID,
	}
	require.NoError(t, s.UpsertSubscription(ctx, sub))

	// Same endpoint re-registered by another account replaces the row.
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/abc", P256DH: "p2", Auth: "a2", UserID: bob.ID,
	}))

	subs, err := s.SubscriptionsByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "p2", subs[0].P256DH)

	orphaned, err := s.SubscriptionsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, orphaned)

	require.NoError(t, s.DeleteSubscription(ctx, "https://push.example/abc"))
	subs, err = s.SubscriptionsByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestDeleteUserCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer := seedCustomer(t, s, "alice")
	restaurant := seedRestaurant(t, s, "Noodle House", 99, 100)
	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{"6_09_12_00": 0}, restaurant.ID))

	_, err := s.ReserveAppointment(ctx, customer.ID, restaurant)
	require.NoError(t, err)
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/abc", P256DH: "p", Auth: "a", UserID: customer.ID,
	}))

	require.NoError(t, s.DeleteUserCascade(ctx, customer.ID))

	_, err = s.UserByID(ctx, customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	appointments, err := s.AppointmentsByUser(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	subs, err := s.SubscriptionsByUser(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
