package prediction

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"restaurant-queue-backend/internal/ledger"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/queue"
	"restaurant-queue-backend/internal/store"
)

// Gateway assembles queue state into predictor payloads.
type Gateway struct {
	store  store.Store
	queue  *queue.Service
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

// NewGateway creates a predictor gateway.
func NewGateway(s store.Store, q *queue.Service, client *Client, logger *zap.Logger) *Gateway {
	return &Gateway{store: s, queue: q, client: client, logger: logger, now: time.Now}
}

// WaitTime asks the predictor for the customer's estimated wait at the
// restaurant.
func (g *Gateway) WaitTime(ctx context.Context, restaurantID, customerID int64) (*Response, error) {
	payload, err := g.buildPayload(ctx, restaurantID, customerID)
	if err != nil {
		return nil, err
	}
	return g.client.PredictWaitTime(ctx, payload)
}

// Traffic asks the predictor for the restaurant's expected traffic curve.
func (g *Gateway) Traffic(ctx context.Context, restaurantID, customerID int64) (*Response, error) {
	payload, err := g.buildPayload(ctx, restaurantID, customerID)
	if err != nil {
		return nil, err
	}
	return g.client.PredictTraffic(ctx, payload)
}

func (g *Gateway) buildPayload(ctx context.Context, restaurantID, customerID int64) (map[string]any, error) {
	restaurant, err := g.store.RestaurantByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	queueLength, err := g.queue.CountUniqueWaiting(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	records, err := g.store.RecentRecords(ctx, 10, restaurantID)
	if err != nil {
		return nil, err
	}

	position, err := g.queue.Position(ctx, customerID, restaurantID)
	if errors.Is(err, store.ErrNotFound) {
		// Not in the queue yet: assume they would join at the back.
		position = queueLength + 1
	} else if err != nil {
		return nil, err
	}

	now := g.now()
	return map[string]any{
		"queueLength":        queueLength,
		"averageServiceTime": ledger.EstimateServiceTime(records),
		"activeServers":      activeServers(restaurant.MaxCapacity),
		"customerPosition":   position,
		"currentTime":        now.Format(time.RFC3339),
		"restaurantType":     restaurantType(restaurant.MaxCapacity),
		"maxCapacity":        restaurant.MaxCapacity,
		"tableCount":         restaurant.MaxCapacity / 4,
		"weather":            "sunny",
		"isHoliday":          isWeekend(now),
		"historicalData":     historicalData(records),
	}, nil
}

// One server per 25 seats, at least one.
func activeServers(capacity int) int {
	servers := capacity / 25
	if servers < 1 {
		return 1
	}
	return servers
}

func restaurantType(capacity int) string {
	switch {
	case capacity <= 30:
		return "quick-service"
	case capacity <= 80:
		return "casual"
	default:
		return "large"
	}
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func historicalData(records []model.OccupancyRecord) map[string]any {
	counts := make([]int, 0, len(records))
	for _, record := range records {
		counts = append(counts, record.Headcount)
	}

	mean := 0.0
	if len(counts) > 0 {
		sum := 0
		for _, c := range counts {
			sum += c
		}
		mean = float64(sum) / float64(len(counts))
	}

	variance := 0.0
	if len(counts) > 0 {
		for _, c := range counts {
			diff := float64(c) - mean
			variance += diff * diff
		}
		variance /= float64(len(counts))
	}

	return map[string]any{
		"recentPersonCounts":  counts,
		"averagePersonCount":  mean,
		"personCountVariance": variance,
	}
}
