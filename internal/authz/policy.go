// Package authz is the single policy-evaluation point for every gated
// operation. Handlers and services ask it one question: may this subject
// perform this action, optionally against a resource owned by some account.
package authz

import (
	"errors"

	"restaurant-queue-backend/internal/model"
)

// ErrForbidden is returned for any role, status or ownership mismatch.
var ErrForbidden = errors.New("insufficient permissions")

// Action identifies a gated operation.
type Action string

const (
	ActionReserve          Action = "appointment.reserve"
	ActionCancel           Action = "appointment.cancel"
	ActionComplete         Action = "appointment.complete"
	ActionListOwn          Action = "appointment.list_own"
	ActionListForManager   Action = "appointment.list_managed"
	ActionCreateRestaurant Action = "restaurant.create"
	ActionViewRestaurants  Action = "restaurant.view_all"
	ActionViewOwned        Action = "restaurant.view_owned"
	ActionDeleteRestaurant Action = "restaurant.delete"
	ActionViewRecords      Action = "record.view"
	ActionImportRecords    Action = "record.import"
	ActionReviewApprovals  Action = "approval.review"
)

// roleFor maps each action to the role that may perform it. Actions absent
// from the table are open to any authenticated account.
var roleFor = map[Action]string{
	ActionReserve:          model.RoleCustomer,
	ActionCancel:           model.RoleCustomer,
	ActionComplete:         model.RoleManager,
	ActionListOwn:          model.RoleCustomer,
	ActionListForManager:   model.RoleManager,
	ActionCreateRestaurant: model.RoleManager,
	ActionViewRestaurants:  model.RoleCustomer,
	ActionViewOwned:        model.RoleManager,
	ActionDeleteRestaurant: model.RoleManager,
	ActionViewRecords:      model.RoleManager,
	ActionImportRecords:    model.RoleManager,
	ActionReviewApprovals:  model.RoleAdministrator,
}

// Policy evaluates capability checks. The administrative account name comes
// from configuration instead of being baked into each endpoint.
type Policy struct {
	adminUsername string
}

// New creates a policy bound to the configured administrative account.
func New(adminUsername string) *Policy {
	return &Policy{adminUsername: adminUsername}
}

// Allow decides whether subject may perform action. resourceOwner is the
// account id owning the target resource; pass zero for actions without an
// ownership constraint.
func (p *Policy) Allow(subject *model.User, action Action, resourceOwner int64) error {
	if subject == nil {
		return ErrForbidden
	}
	if subject.Status != model.StatusApproved {
		return ErrForbidden
	}
	if role, ok := roleFor[action]; ok && subject.Role != role {
		return ErrForbidden
	}
	if action == ActionReviewApprovals && subject.Name != p.adminUsername {
		return ErrForbidden
	}
	if resourceOwner != 0 && resourceOwner != subject.ID {
		return ErrForbidden
	}
	return nil
}
