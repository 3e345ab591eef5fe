// Package notification delivers "table ready" web push messages through a
// pool of workers.
package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan int64
	store   store.Store
	webpush *webpush.Options
	sender  Sender
	logger  *zap.Logger
}

// NewWorkerPool creates a worker pool that notifies the owners of completed
// appointments.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.logger.Info("notification worker started", zap.Int("worker", id))
	for {
		select {
		case appointmentID := <-wp.jobs:
			wp.notify(ctx, appointmentID)
		case <-ctx.Done():
			wp.logger.Info("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a completed appointment for notification.
func (wp *WorkerPool) Dispatch(appointmentID int64) {
	wp.jobs <- appointmentID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// notify pushes a "table ready" message to every subscription of the
// appointment's owner.
func (wp *WorkerPool) notify(ctx context.Context, appointmentID int64) {
	appointment, err := wp.store.AppointmentByID(ctx, appointmentID)
	if err != nil {
		wp.logger.Warn("cannot load appointment for notification",
			zap.Int64("appointment_id", appointmentID), zap.Error(err))
		return
	}
	if appointment.Status != model.AppointmentCompleted {
		return
	}

	restaurant, err := wp.store.RestaurantByID(ctx, appointment.RestaurantID)
	if err != nil {
		wp.logger.Warn("cannot load restaurant for notification",
			zap.Int64("restaurant_id", appointment.RestaurantID), zap.Error(err))
		return
	}

	subscriptions, err := wp.store.SubscriptionsByUser(ctx, appointment.UserID)
	if err != nil {
		wp.logger.Warn("cannot load subscriptions",
			zap.Int64("user_id", appointment.UserID), zap.Error(err))
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	message := fmt.Sprintf("Your table at %s is ready!", restaurant.Name)
	for _, sub := range subscriptions {
		wp.send(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Warn("push delivery failed",
			zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("removing expired subscription",
			zap.String("endpoint", sub.Endpoint))
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.logger.Warn("failed to delete expired subscription",
				zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}

// SetSender replaces the delivery backend. Tests use it to capture payloads.
func (wp *WorkerPool) SetSender(s Sender) {
	wp.sender = s
}
