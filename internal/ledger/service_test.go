package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/db"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

func records(counts ...int) []model.OccupancyRecord {
	out := make([]model.OccupancyRecord, len(counts))
	for i, c := range counts {
		out[i] = model.OccupancyRecord{Headcount: c}
	}
	return out
}

func TestEstimateServiceTime(t *testing.T) {
	tests := []struct {
		name string
		in   []model.OccupancyRecord // newest first
		want float64
	}{
		{"no records", nil, 10.0},
		{"single record", records(5), 10.0},
		{"monotonic increase", records(9, 7, 5), 15.0},
		{"flat", records(5, 5, 5), 15.0},
		// 10 -> 8: two served in one interval, 2.5 min each, clamped up
		// to the 5 minute floor.
		{"fast service clamped low", records(8, 10), 5.0},
		{"one served per interval", records(4, 5), 5.0},
		// samples 5.0 and 1.0, mean 3.0, clamped to 5.
		{"mixed decreases clamped", records(4, 5, 0, 5), 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateServiceTime(tt.in), 1e-9)
		})
	}
}

func newLedgerFixture(t *testing.T) (*Service, store.Store, *model.User, *model.Restaurant) {
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

	manager := &model.User{Name: "mgr", Password: "x", Role: model.RoleManager, Status: model.StatusApproved}
	require.NoError(t, s.CreateUser(ctx, manager))
	venue := &model.Restaurant{Name: "Noodle House", ManagerID: manager.ID, MaxCapacity: 40}
	require.NoError(t, s.CreateRestaurant(ctx, venue))

	return NewService(s, authz.New("sa"), zap.NewNop()), s, manager, venue
}

func TestLatest(t *testing.T) {
	svc, s, _, venue := newLedgerFixture(t)
	ctx := context.Background()

	_, err := svc.Latest(ctx, venue.ID)
	assert.ErrorIs(t, err, store.ErrNoOccupancy)

	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{
		"6_09_12_00": 5,
		"6_09_12_05": 9,
	}, venue.ID))

	latest, err := svc.Latest(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, latest.Headcount)

	_, err = svc.Latest(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecentEnforcesOwnership(t *testing.T) {
	svc, s, manager, venue := newLedgerFixture(t)
	ctx := context.Background()

	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{"6_09_12_00": 5}, venue.ID))

	other := &model.User{Name: "mgr2", Password: "x", Role: model.RoleManager, Status: model.StatusApproved}
	require.NoError(t, s.CreateUser(ctx, other))

	_, err := svc.Recent(ctx, other, 10, "Noodle House")
	assert.ErrorIs(t, err, authz.ErrForbidden)

	got, err := svc.Recent(ctx, manager, 10, "Noodle House")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestByDatePrefix(t *testing.T) {
	svc, s, manager, venue := newLedgerFixture(t)
	ctx := context.Background()

	require.NoError(t, s.BulkImportRecords(ctx, map[string]int{
		"6_09_12_00": 5,
		"6_09_12_05": 6,
		"6_10_08_00": 2,
	}, venue.ID))

	got, err := svc.ByDatePrefix(ctx, manager, "6_09", "Noodle House")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ByDatePrefix(ctx, manager, "7_", "Noodle House")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBulkImportUnknownRestaurant(t *testing.T) {
	svc, _, _, _ := newLedgerFixture(t)

	err := svc.BulkImport(context.Background(), map[string]int{"6_09_12_00": 1}, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
