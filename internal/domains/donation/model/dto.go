package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// PUBLISH DONATION REQUEST
// =====================================================
type PublishDonationRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageRef    *string   `json:"image_ref,omitempty"`
	Quantity    int       `json:"quantity"`
	ExpiryAt    time.Time `json:"expiry_at"`
}

// Validate validates PublishDonationRequest.
// Expiry-in-the-future is checked by the service against its clock.
func (req PublishDonationRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&req.ExpiryAt, validation.Required),
	)
}

// =====================================================
// UPDATE DONATION REQUEST
// =====================================================
// Pointer fields distinguish "not sent" from "set to zero value".
type UpdateDonationRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageRef    *string    `json:"image_ref,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	ExpiryAt    *time.Time `json:"expiry_at,omitempty"`
}

// Validate validates UpdateDonationRequest
func (req UpdateDonationRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.NilOrNotEmpty, validation.Length(1, 2000)),
		validation.Field(&req.Quantity, validation.By(validateOptionalQuantity)),
	)
}

// validateOptionalQuantity rejects quantities below one when the field is
// present. Min cannot be used here: it treats a dereferenced zero as empty
// and skips it, which would let quantity 0 through.
func validateOptionalQuantity(value interface{}) error {
	q, ok := value.(*int)
	if !ok || q == nil {
		return nil
	}
	if *q < 1 {
		return errors.New("must be no less than 1")
	}
	return nil
}

// IsEmpty reports whether the request carries no changes
func (req UpdateDonationRequest) IsEmpty() bool {
	return req.Title == nil && req.Description == nil &&
		req.ImageRef == nil && req.Quantity == nil && req.ExpiryAt == nil
}

// =====================================================
// FEED REQUEST
// =====================================================
type FeedRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps pagination to sane bounds
func (req *FeedRequest) Normalize(defaultLimit, maxLimit int) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
}

// =====================================================
// RESPONSES
// =====================================================
type DonationResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageRef    *string    `json:"image_ref,omitempty"`
	Quantity    int        `json:"quantity"`
	ExpiryAt    time.Time  `json:"expiry_at"`
	Status      string     `json:"status"`
	ClaimantID  *uuid.UUID `json:"claimant_id,omitempty"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToResponse maps a donation to its API shape
func (d *Donation) ToResponse() *DonationResponse {
	return &DonationResponse{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		ImageRef:    d.ImageRef,
		Quantity:    d.Quantity,
		ExpiryAt:    d.ExpiryAt,
		Status:      d.Status,
		ClaimantID:  d.ClaimantID,
		ClaimedAt:   d.ClaimedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// FeedResponse is a page of donations plus the total matching count
type FeedResponse struct {
	Donations []*DonationResponse `json:"donations"`
	Total     int                 `json:"total"`
}

// UploadImageResponse returns the stored variants of an uploaded image
type UploadImageResponse struct {
	ImageRef string            `json:"image_ref"`
	Variants map[string]string `json:"variants"`
}
