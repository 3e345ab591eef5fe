package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-queue-backend/internal/db"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

// stubSender records sends and returns a canned status code.
type stubSender struct {
	mu       sync.Mutex
	status   int
	payloads []string
	targets  []string
}

func (s *stubSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, string(payload))
	s.targets = append(s.targets, sub.Endpoint)
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}, nil
}

func newWorkerFixture(t *testing.T) (store.Store, *model.User, *model.Restaurant) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)
	ctx := context.Background()

	customer := &model.User{Name: "alice", Password: "x", Role: model.RoleCustomer, Status: model.StatusApproved}
	require.NoError(t, s.CreateUser(ctx, customer))
	venue := &model.Restaurant{Name: "Noodle House", ManagerID: 1, MaxCapacity: 50}
	require.NoError(t, s.CreateRestaurant(ctx, venue))
	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{"6_09_12_00": 0}, venue.ID))

	return s, customer, venue
}

func completedAppointment(t *testing.T, s store.Store, customer *model.User, venue *model.Restaurant) *model.Appointment {
	t.Helper()
	ctx := context.Background()

	appointment, err := s.ReserveAppointment(ctx, customer.ID, venue)
	require.NoError(t, err)
	appointment.Status = model.AppointmentCompleted
	require.NoError(t, s.SaveAppointment(ctx, appointment))
	return appointment
}

func TestDispatchQueuesJob(t *testing.T) {
	s, _, _ := newWorkerFixture(t)
	wp := NewWorkerPool(1, s, &webpush.Options{}, zap.NewNop())

	wp.Dispatch(123)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, int64(123), job)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestNotifySendsTableReadyMessage(t *testing.T) {
	s, customer, venue := newWorkerFixture(t)
	ctx := context.Background()

	appointment := completedAppointment(t, s, customer, venue)
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/abc", P256DH: "p", Auth: "a", UserID: customer.ID,
	}))

	sender := &stubSender{status: http.StatusCreated}
	wp := NewWorkerPool(1, s, &webpush.Options{}, zap.NewNop())
	wp.SetSender(sender)

	wp.notify(ctx, appointment.ID)

	require.Len(t, sender.payloads, 1)
	assert.Contains(t, sender.payloads[0], "Noodle House")
	assert.Equal(t, []string{"https://push.example/abc"}, sender.targets)
}

func TestNotifySkipsWaitingAppointments(t *testing.T) {
	s, customer, venue := newWorkerFixture(t)
	ctx := context.Background()

	appointment, err := s.ReserveAppointment(ctx, customer.ID, venue)
	require.NoError(t, err)
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/abc", P256DH: "p", Auth: "a", UserID: customer.ID,
	}))

	sender := &stubSender{status: http.StatusCreated}
	wp := NewWorkerPool(1, s, &webpush.Options{}, zap.NewNop())
	wp.SetSender(sender)

	wp.notify(ctx, appointment.ID)
	assert.Empty(t, sender.payloads)
}

func TestNotifyDeletesExpiredSubscription(t *testing.T) {
	s, customer, venue := newWorkerFixture(t)
	ctx := context.Background()

	appointment := completedAppointment(t, s, customer, venue)
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/expired", P256DH: "p", Auth: "a", UserID: customer.ID,
	}))

	sender := &stubSender{status: http.StatusGone}
	wp := NewWorkerPool(1, s, &webpush.Options{}, zap.NewNop())
	wp.SetSender(sender)

	wp.notify(ctx, appointment.ID)

	subs, err := s.SubscriptionsByUser(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
