package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDonationStatus_IsValid(t *testing.T) {
	assert.True(t, DonationStatusAvailable.IsValid())
	assert.True(t, DonationStatusClaimed.IsValid())
	assert.True(t, DonationStatusExpired.IsValid())
	assert.True(t, DonationStatusDeleted.IsValid())
	assert.False(t, DonationStatus("pending").IsValid())
	assert.False(t, DonationStatus("").IsValid())
}

func TestDonation_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		from     DonationStatus
		to       DonationStatus
		expected bool
	}{
		{"available to claimed", DonationStatusAvailable, DonationStatusClaimed, true},
		{"available to expired", DonationStatusAvailable, DonationStatusExpired, true},
		{"available to deleted", DonationStatusAvailable, DonationStatusDeleted, true},
		{"claimed to expired", DonationStatusClaimed, DonationStatusExpired, true},
		{"claimed cannot be deleted", DonationStatusClaimed, DonationStatusDeleted, false},
		{"claimed back to available", DonationStatusClaimed, DonationStatusAvailable, false},
		{"expired cannot be deleted", DonationStatusExpired, DonationStatusDeleted, false},
		{"expired to claimed", DonationStatusExpired, DonationStatusClaimed, false},
		{"deleted is terminal", DonationStatusDeleted, DonationStatusAvailable, false},
		{"deleted stays deleted", DonationStatusDeleted, DonationStatusDeleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Donation{Status: tt.from.String()}
			assert.Equal(t, tt.expected, d.CanTransitionTo(tt.to))
		})
	}
}

func TestDonation_IsPastExpiry(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := &Donation{ExpiryAt: expiry}

	assert.False(t, d.IsPastExpiry(expiry.Add(-time.Second)))
	// Expiry is inclusive: a donation is expired at exactly its expiry time.
	assert.True(t, d.IsPastExpiry(expiry))
	assert.True(t, d.IsPastExpiry(expiry.Add(time.Second)))
}

func TestDonation_StatusHelpers(t *testing.T) {
	d := &Donation{Status: DonationStatusAvailable.String()}
	assert.True(t, d.IsAvailable())
	assert.False(t, d.IsClaimed())
	assert.False(t, d.IsDeleted())

	d.Status = DonationStatusClaimed.String()
	assert.True(t, d.IsClaimed())
	assert.False(t, d.IsAvailable())

	d.Status = DonationStatusDeleted.String()
	assert.True(t, d.IsDeleted())
}
