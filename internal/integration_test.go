package internal

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
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

	"restaurant-queue-backend/config"
	"restaurant-queue-backend/internal/account"
	"restaurant-queue-backend/internal/approval"
	"restaurant-queue-backend/internal/auth"
	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/db"
	"restaurant-queue-backend/internal/ingest"
	"restaurant-queue-backend/internal/ledger"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/notification"
	"restaurant-queue-backend/internal/queue"
	"restaurant-queue-backend/internal/store"
)

// countingSender records webpush deliveries.
type countingSender struct {
	mu       sync.Mutex
	payloads []string
}

func (s *countingSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, string(payload))
	return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(bytes.NewReader(nil))}, nil
}

func (s *countingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

// TestQueueLifecycle walks the whole flow: accounts register, the admin
// approves the manager, headcount files are ingested, customers queue up
// against capacity, the manager completes an appointment and the customer's
// push subscription is notified.
func TestQueueLifecycle(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)
	nop := zap.NewNop()
	policy := authz.New("sa")
	ctx := context.Background()

	accountSvc := account.NewService(s, auth.NewJWTService("test-secret", 1), nop)
	approvalSvc := approval.NewService(s, policy, nop)

	pool := notification.NewWorkerPool(2, s, &webpush.Options{}, nop)
	sender := &countingSender{}
	pool.SetSender(sender)
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool.Start(workerCtx)

	queueSvc := queue.NewService(s, policy, pool, nop)
	ledgerSvc := ledger.NewService(s, policy, nop)

	// Accounts: admin, a manager pending approval, two customers.
	admin, err := accountSvc.Add(ctx, "sa", "pw", model.RoleAdministrator)
	require.NoError(t, err)
	manager, err := accountSvc.Register(ctx, "mgr", "pw", model.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, manager.Status)
	_, err = accountSvc.Register(ctx, "alice", "pw", model.RoleCustomer)
	require.NoError(t, err)
	_, err = accountSvc.Register(ctx, "bob", "pw", model.RoleCustomer)
	require.NoError(t, err)

	// A pending manager cannot open a venue's books yet.
	pending, err := approvalSvc.Pending(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NoError(t, approvalSvc.Resolve(ctx, admin, pending[0].ID, true, ""))

	manager, err = accountSvc.GetByName(ctx, "mgr")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, manager.Status)

	venue := &model.Restaurant{Name: "Noodle House", ManagerID: manager.ID, MaxCapacity: 10}
	require.NoError(t, s.CreateRestaurant(ctx, venue))

	// Headcounts arrive as files from the counting pipeline.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "6_09_12_00_count.txt"), []byte("8"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "6_09_12_05_count.txt"), []byte("9"), 0o644))

	cfg := &config.Config{}
	cfg.Ingest.Enabled = true
	cfg.Ingest.Dir = dir
	cfg.Ingest.RestaurantID = venue.ID
	ingest.NewService(cfg, s, nop).ImportOnce(ctx)

	latest, err := ledgerSvc.Latest(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, latest.Headcount)

	// Capacity 10, occupancy 9: two admissions fit, the third conflicts.
	alice, err := accountSvc.GetByName(ctx, "alice")
	require.NoError(t, err)
	appointment, err := queueSvc.Reserve(ctx, "alice", "Noodle House")
	require.NoError(t, err)
	_, err = queueSvc.Reserve(ctx, "bob", "Noodle House")
	require.NoError(t, err)
	_, err = queueSvc.Reserve(ctx, "alice", "Noodle House")
	assert.ErrorIs(t, err, store.ErrCapacityExceeded)

	count, err := queueSvc.CountUniqueWaiting(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	pos, err := queueSvc.Position(ctx, alice.ID, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	// Alice subscribed to pushes; completion must notify her exactly once.
	require.NoError(t, s.UpsertSubscription(ctx, &model.PushSubscription{
		Endpoint: "https://push.example/alice", P256DH: "p", Auth: "a", UserID: alice.ID,
	}))

	require.NoError(t, queueSvc.Complete(ctx, manager, appointment.ID))
	require.NoError(t, queueSvc.Complete(ctx, manager, appointment.ID))

	require.Eventually(t, func() bool {
		return sender.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, sender.payloads[0], "Noodle House")

	// Completion frees a waitlist slot: occupancy 9 + 1 waiting admits one.
	_, err = queueSvc.Reserve(ctx, "alice", "Noodle House")
	require.NoError(t, err)
}
