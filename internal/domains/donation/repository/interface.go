package repository

import (
	"context"
	"time"

	"mealmates-backend/internal/domains/donation/model"

	"github.com/google/uuid"
)

// Repository defines persistence for donations. Every state change is a
// single conditional statement, so concurrent writers are arbitrated by the
// database rather than by read-then-write sequences.
type Repository interface {
	Create(ctx context.Context, donation *model.Donation) error

	// GetByID returns a live donation. Tombstoned rows surface as not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Donation, error)

	// ClaimIfAvailable atomically moves available -> claimed and records the
	// claimant. Exactly one concurrent caller wins; the rest get
	// model.ErrClaimConflict. A listing past its expiry is no longer
	// claimable and also surfaces as model.ErrClaimConflict.
	ClaimIfAvailable(ctx context.Context, id, claimantID uuid.UUID, now time.Time) (*model.Donation, error)

	// MarkExpiredIfAvailable moves available -> expired. The listed expiry
	// timestamp is not a precondition; owners may close a listing early. Any
	// other live state surfaces as model.ErrInvalidTransition.
	MarkExpiredIfAvailable(ctx context.Context, id uuid.UUID, now time.Time) (*model.Donation, error)

	// SoftDeleteIfAvailable tombstones an available donation. Claimed and
	// expired records are never deleted; those misses surface as
	// model.ErrInvalidTransition.
	SoftDeleteIfAvailable(ctx context.Context, id uuid.UUID, now time.Time) error

	// UpdateIfAvailable rewrites the editable fields while the donation is
	// still available. A concurrent claim wins and the update gets
	// model.ErrClaimConflict.
	UpdateIfAvailable(ctx context.Context, donation *model.Donation) error

	// ListAvailable returns claimable donations, newest first, with the
	// total matching count. Listings past expiry are excluded even before
	// the sweep catches them.
	ListAvailable(ctx context.Context, now time.Time, limit, offset int) ([]model.Donation, int, error)

	// ListByOwner returns every live donation of an owner, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Donation, int, error)

	// SweepExpired promotes a batch of past-expiry live donations to expired
	// and returns how many rows changed.
	SweepExpired(ctx context.Context, now time.Time, batchSize int) (int64, error)
}
