package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"restaurant-queue-backend/internal/model"
)

func (s *gormStore) CreateApproval(ctx context.Context, request *model.ApprovalRequest) error {
	return s.db.WithContext(ctx).Create(request).Error
}

func (s *gormStore) PendingApprovals(ctx context.Context) ([]model.ApprovalRequest, error) {
	var requests []model.ApprovalRequest
	err := s.db.WithContext(ctx).
		Preload("Applicant").
		Where("handled = ?", false).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ResolveApproval sets the applicant's status and marks the request handled,
// both in one transaction. A request that was already handled is rejected
// rather than silently re-resolved.
func (s *gormStore) ResolveApproval(ctx context.Context, requestID int64, approved bool) (*model.ApprovalRequest, error) {
	var request model.ApprovalRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Applicant").First(&request, requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if request.Handled {
			return ErrAlreadyHandled
		}

		if approved {
			request.Applicant.Status = model.StatusApproved
		} else {
			request.Applicant.Status = model.StatusRejected
		}
		request.Handled = true

		if err := tx.Save(&request.Applicant).Error; err != nil {
			return err
		}
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}
