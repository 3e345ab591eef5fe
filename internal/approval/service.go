// Package approval handles the manager-registration audit queue.
package approval

import (
	"context"

	"go.uber.org/zap"

	"restaurant-queue-backend/internal/authz"
	"restaurant-queue-backend/internal/model"
	"restaurant-queue-backend/internal/store"
)

// Service is the approval workflow.
type Service struct {
	store  store.Store
	policy *authz.Policy
	logger *zap.Logger
}

// NewService creates an approval workflow service.
func NewService(s store.Store, policy *authz.Policy, logger *zap.Logger) *Service {
	return &Service{store: s, policy: policy, logger: logger}
}

// Pending returns every unhandled approval request.
func (s *Service) Pending(ctx context.Context, subject *model.User) ([]model.ApprovalRequest, error) {
	if err := s.policy.Allow(subject, authz.ActionReviewApprovals, 0); err != nil {
		return nil, err
	}
	return s.store.PendingApprovals(ctx)
}

// Resolve approves or rejects the applicant and marks the request handled.
// comment is accepted for API compatibility but not stored. A request that
// was already handled is rejected.
func (s *Service) Resolve(ctx context.Context, subject *model.User, requestID int64, approved bool, comment string) error {
	if err := s.policy.Allow(subject, authz.ActionReviewApprovals, 0); err != nil {
		return err
	}
	_ = comment

	request, err := s.store.ResolveApproval(ctx, requestID, approved)
	if err != nil {
		return err
	}
	s.logger.Info("approval request resolved",
		zap.Int64("request_id", request.ID),
		zap.Int64("applicant_id", request.ApplicantID),
		zap.Bool("approved", approved))
	return nil
}
