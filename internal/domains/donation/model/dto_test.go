package model

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validPublishRequest() PublishDonationRequest {
	return PublishDonationRequest{
		Title:       "Sourdough loaves",
		Description: "Day-old loaves, still good",
		Quantity:    3,
		ExpiryAt:    time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestPublishDonationRequest_Validate(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, validPublishRequest().Validate())
	})

	t.Run("missing title fails", func(t *testing.T) {
		req := validPublishRequest()
		req.Title = ""
		assert.Error(t, req.Validate())
	})

	t.Run("title too long fails", func(t *testing.T) {
		req := validPublishRequest()
		req.Title = strings.Repeat("x", 201)
		assert.Error(t, req.Validate())
	})

	t.Run("empty description fails", func(t *testing.T) {
		req := validPublishRequest()
		req.Description = ""
		assert.Error(t, req.Validate())
	})

	t.Run("description too long fails", func(t *testing.T) {
		req := validPublishRequest()
		req.Description = strings.Repeat("x", 2001)
		assert.Error(t, req.Validate())
	})

	t.Run("zero quantity fails", func(t *testing.T) {
		req := validPublishRequest()
		req.Quantity = 0
		assert.Error(t, req.Validate())
	})

	t.Run("negative quantity fails", func(t *testing.T) {
		req := validPublishRequest()
		req.Quantity = -2
		assert.Error(t, req.Validate())
	})

	t.Run("missing expiry fails", func(t *testing.T) {
		req := validPublishRequest()
		req.ExpiryAt = time.Time{}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateDonationRequest_Validate(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(n int) *int { return &n }

	t.Run("empty request is valid", func(t *testing.T) {
		req := UpdateDonationRequest{}
		assert.NoError(t, req.Validate())
		assert.True(t, req.IsEmpty())
	})

	t.Run("partial update is valid", func(t *testing.T) {
		req := UpdateDonationRequest{Title: strPtr("New title")}
		assert.NoError(t, req.Validate())
		assert.False(t, req.IsEmpty())
	})

	t.Run("empty title fails", func(t *testing.T) {
		req := UpdateDonationRequest{Title: strPtr("")}
		assert.Error(t, req.Validate())
	})

	t.Run("empty description fails", func(t *testing.T) {
		req := UpdateDonationRequest{Description: strPtr("")}
		assert.Error(t, req.Validate())
	})

	t.Run("zero quantity fails", func(t *testing.T) {
		req := UpdateDonationRequest{Quantity: intPtr(0)}
		assert.Error(t, req.Validate())
	})

	t.Run("negative quantity fails", func(t *testing.T) {
		req := UpdateDonationRequest{Quantity: intPtr(-1)}
		assert.Error(t, req.Validate())
	})

	t.Run("positive quantity passes", func(t *testing.T) {
		req := UpdateDonationRequest{Quantity: intPtr(1)}
		assert.NoError(t, req.Validate())
	})
}

func TestFeedRequest_Normalize(t *testing.T) {
	tests := []struct {
		name          string
		in            FeedRequest
		expectedPage  int
		expectedLimit int
	}{
		{"defaults applied", FeedRequest{}, 1, 20},
		{"negative page clamped", FeedRequest{Page: -3, Limit: 10}, 1, 10},
		{"limit above max clamped", FeedRequest{Page: 2, Limit: 500}, 2, 100},
		{"valid values untouched", FeedRequest{Page: 4, Limit: 50}, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize(20, 100)
			assert.Equal(t, tt.expectedPage, tt.in.Page)
			assert.Equal(t, tt.expectedLimit, tt.in.Limit)
		})
	}
}

func TestDonation_ToResponse(t *testing.T) {
	claimant := uuid.New()
	claimedAt := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	d := &Donation{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		Title:      "Crates of apples",
		Quantity:   5,
		Status:     DonationStatusClaimed.String(),
		ClaimantID: &claimant,
		ClaimedAt:  &claimedAt,
	}

	resp := d.ToResponse()
	assert.Equal(t, d.ID, resp.ID)
	assert.Equal(t, d.OwnerID, resp.OwnerID)
	assert.Equal(t, d.Title, resp.Title)
	assert.Equal(t, d.Status, resp.Status)
	assert.Equal(t, &claimant, resp.ClaimantID)
	assert.Equal(t, &claimedAt, resp.ClaimedAt)
}
