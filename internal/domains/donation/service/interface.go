package service

import (
	"context"

	"mealmates-backend/internal/domains/donation/model"

	"github.com/google/uuid"
)

// Service drives the donation lifecycle. Authorization runs before any state
// check, so a forbidden caller learns nothing about the record's state.
type Service interface {
	// Publish creates a new available donation owned by the actor.
	Publish(ctx context.Context, actor Actor, req model.PublishDonationRequest) (*model.DonationResponse, error)

	// GetDonation returns a single live donation.
	GetDonation(ctx context.Context, id uuid.UUID) (*model.DonationResponse, error)

	// Claim atomically claims an available donation for the actor.
	Claim(ctx context.Context, actor Actor, id uuid.UUID) (*model.DonationResponse, error)

	// MarkExpired closes an available donation. Owners may close a listing
	// before its listed expiry.
	MarkExpired(ctx context.Context, actor Actor, id uuid.UUID) (*model.DonationResponse, error)

	// Remove tombstones a donation. Idempotent callers get not-found on a
	// second attempt, matching a record that never existed.
	Remove(ctx context.Context, actor Actor, id uuid.UUID) error

	// Update edits the listing fields while the donation is still available.
	Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateDonationRequest) (*model.DonationResponse, error)

	// AvailableFeed projects claimable donations, newest first.
	AvailableFeed(ctx context.Context, req model.FeedRequest) (*model.FeedResponse, error)

	// OwnerFeed projects every live donation of the actor.
	OwnerFeed(ctx context.Context, actor Actor, req model.FeedRequest) (*model.FeedResponse, error)

	// UploadImage validates, resizes, and stores a donation image.
	UploadImage(ctx context.Context, actor Actor, data []byte) (*model.UploadImageResponse, error)

	// SweepExpired promotes a batch of past-expiry donations. Called by the
	// background job.
	SweepExpired(ctx context.Context, batchSize int) (int64, error)
}
