package service

import (
	"mealmates-backend/internal/domains/donation/model"

	"github.com/google/uuid"
)

// Action is something a caller can attempt on a donation.
type Action string

const (
	ActionPublish      Action = "publish"
	ActionClaim        Action = "claim"
	ActionMarkExpired  Action = "mark_expired"
	ActionRemove       Action = "remove"
	ActionUpdateFields Action = "update_fields"
	ActionView         Action = "view"
)

// Actor identifies who is attempting an action. System is true for
// background jobs, which bypass ownership checks for mark_expired.
type Actor struct {
	UserID uuid.UUID
	System bool
}

// SystemActor is the identity of background jobs.
var SystemActor = Actor{System: true}

// Policy decides whether an actor may perform an action on a donation.
// It is pure: no I/O, no clock, just the rule table. Callers check state
// transitions separately; the policy only answers "who may try".
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// Allow returns nil when the action is permitted, model.ErrForbidden (or a
// more specific error) otherwise. donation is nil only for ActionPublish.
func (p *Policy) Allow(actor Actor, action Action, donation *model.Donation) error {
	if actor.System {
		// Jobs only expire; everything else stays with users.
		if action == ActionMarkExpired || action == ActionView {
			return nil
		}
		return model.ErrForbidden
	}

	if actor.UserID == uuid.Nil {
		return model.ErrForbidden
	}

	switch action {
	case ActionPublish:
		return nil

	case ActionView:
		return nil

	case ActionClaim:
		if donation.OwnerID == actor.UserID {
			return model.ErrOwnClaim
		}
		return nil

	case ActionMarkExpired:
		// Owners may expire their own listing early; anyone else waits
		// for the sweep.
		if donation.OwnerID != actor.UserID {
			return model.ErrForbidden
		}
		return nil

	case ActionRemove, ActionUpdateFields:
		if donation.OwnerID != actor.UserID {
			return model.ErrForbidden
		}
		return nil
	}

	return model.ErrForbidden
}
