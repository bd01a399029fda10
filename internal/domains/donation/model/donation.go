package model

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus represents the lifecycle state of a donation
type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "available"
	DonationStatusClaimed   DonationStatus = "claimed"
	DonationStatusExpired   DonationStatus = "expired"
	DonationStatusDeleted   DonationStatus = "deleted"
)

func (ds DonationStatus) IsValid() bool {
	switch ds {
	case DonationStatusAvailable, DonationStatusClaimed, DonationStatusExpired, DonationStatusDeleted:
		return true
	}
	return false
}

func (ds DonationStatus) String() string {
	return string(ds)
}

// Donation represents a surplus food listing
type Donation struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageRef    *string   `json:"image_ref,omitempty" db:"image_ref"`
	Quantity    int       `json:"quantity" db:"quantity"`
	ExpiryAt    time.Time `json:"expiry_at" db:"expiry_at"`

	Status     string     `json:"status" db:"status"`
	ClaimantID *uuid.UUID `json:"claimant_id,omitempty" db:"claimant_id"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty" db:"claimed_at"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// IsAvailable checks if the donation can still be claimed
func (d *Donation) IsAvailable() bool {
	return d.Status == string(DonationStatusAvailable)
}

// IsClaimed checks if the donation has been claimed
func (d *Donation) IsClaimed() bool {
	return d.Status == string(DonationStatusClaimed)
}

// IsDeleted checks if the donation has been removed by its owner
func (d *Donation) IsDeleted() bool {
	return d.Status == string(DonationStatusDeleted)
}

// IsPastExpiry reports whether the listed expiry has passed at the given time
func (d *Donation) IsPastExpiry(now time.Time) bool {
	return !now.Before(d.ExpiryAt)
}

// CanTransitionTo checks if the donation can move to a new status.
// Removal is only allowed while the donation is still claimable; a claimed
// donation may still expire through the sweep. Expired and Deleted are
// terminal.
func (d *Donation) CanTransitionTo(newStatus DonationStatus) bool {
	currentStatus := DonationStatus(d.Status)

	validTransitions := map[DonationStatus][]DonationStatus{
		DonationStatusAvailable: {
			DonationStatusClaimed,
			DonationStatusExpired,
			DonationStatusDeleted,
		},
		DonationStatusClaimed: {
			DonationStatusExpired,
		},
	}

	allowedStatuses, exists := validTransitions[currentStatus]
	if !exists {
		return false
	}

	for _, allowed := range allowedStatuses {
		if allowed == newStatus {
			return true
		}
	}

	return false
}
