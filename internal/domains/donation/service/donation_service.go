package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mealmates-backend/internal/domains/donation/model"
	"mealmates-backend/internal/domains/donation/repository"
	"mealmates-backend/internal/infrastructure/storage"
	"mealmates-backend/internal/shared"
	"mealmates-backend/pkg/cache"
	"mealmates-backend/pkg/clock"
	"mealmates-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const feedCacheKeyPrefix = "donations:feed:"

// =====================================================
// DONATION SERVICE IMPLEMENTATION
// =====================================================
type donationService struct {
	repo      repository.Repository
	policy    *Policy
	cache     cache.Cache
	clock     clock.Clock
	storage   *storage.MinIOStorage
	processor *storage.ImageProcessor
	asynq     *asynq.Client

	feedCacheTTL    time.Duration
	defaultPageSize int
	maxPageSize     int
}

// NewDonationService creates a new donation service
func NewDonationService(
	repo repository.Repository,
	policy *Policy,
	cacheClient cache.Cache,
	clk clock.Clock,
	store *storage.MinIOStorage,
	processor *storage.ImageProcessor,
	asynqClient *asynq.Client,
	feedCacheTTLSeconds int,
	defaultPageSize int,
	maxPageSize int,
) Service {
	return &donationService{
		repo:            repo,
		policy:          policy,
		cache:           cacheClient,
		clock:           clk,
		storage:         store,
		processor:       processor,
		asynq:           asynqClient,
		feedCacheTTL:    time.Duration(feedCacheTTLSeconds) * time.Second,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// =====================================================
// PUBLISH
// =====================================================
func (s *donationService) Publish(ctx context.Context, actor Actor, req model.PublishDonationRequest) (*model.DonationResponse, error) {
	if err := s.policy.Allow(actor, ActionPublish, nil); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, model.NewDonationError(model.ErrCodeValidation, "Invalid request", err)
	}

	now := s.clock.Now()
	if !req.ExpiryAt.After(now) {
		return nil, model.NewDonationError(model.ErrCodeValidation, "Invalid request", model.ErrExpiryInPast)
	}

	donation := &model.Donation{
		ID:          uuid.New(),
		OwnerID:     actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		ImageRef:    req.ImageRef,
		Quantity:    req.Quantity,
		ExpiryAt:    req.ExpiryAt,
		Status:      model.DonationStatusAvailable.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, donation); err != nil {
		logger.Error("Failed to publish donation", err)
		return nil, err
	}

	s.invalidateFeedCache(ctx)

	logger.Info("Donation published", map[string]interface{}{
		"donation_id": donation.ID,
		"owner_id":    donation.OwnerID,
	})

	return donation.ToResponse(), nil
}

// =====================================================
// GET
// =====================================================
func (s *donationService) GetDonation(ctx context.Context, id uuid.UUID) (*model.DonationResponse, error) {
	donation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return donation.ToResponse(), nil
}

// =====================================================
// CLAIM
// =====================================================
func (s *donationService) Claim(ctx context.Context, actor Actor, id uuid.UUID) (*model.DonationResponse, error) {
	donation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Allow(actor, ActionClaim, donation); err != nil {
		return nil, err
	}

	// The read above is advisory only. Arbitration happens inside the
	// conditional update, so a concurrent claim between the read and this
	// write still loses cleanly.
	claimed, err := s.repo.ClaimIfAvailable(ctx, id, actor.UserID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.invalidateFeedCache(ctx)

	logger.Info("Donation claimed", map[string]interface{}{
		"donation_id": claimed.ID,
		"claimant_id": actor.UserID,
	})

	return claimed.ToResponse(), nil
}

// =====================================================
// MARK EXPIRED
// =====================================================
func (s *donationService) MarkExpired(ctx context.Context, actor Actor, id uuid.UUID) (*model.DonationResponse, error) {
	donation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Allow(actor, ActionMarkExpired, donation); err != nil {
		return nil, err
	}

	expired, err := s.repo.MarkExpiredIfAvailable(ctx, id, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.invalidateFeedCache(ctx)

	return expired.ToResponse(), nil
}

// =====================================================
// REMOVE
// =====================================================
func (s *donationService) Remove(ctx context.Context, actor Actor, id uuid.UUID) error {
	donation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.policy.Allow(actor, ActionRemove, donation); err != nil {
		return err
	}

	if err := s.repo.SoftDeleteIfAvailable(ctx, id, s.clock.Now()); err != nil {
		return err
	}

	s.invalidateFeedCache(ctx)
	s.enqueueImageCleanup(donation)

	logger.Info("Donation removed", map[string]interface{}{
		"donation_id": id,
		"owner_id":    actor.UserID,
	})

	return nil
}

// =====================================================
// UPDATE
// =====================================================
func (s *donationService) Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateDonationRequest) (*model.DonationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewDonationError(model.ErrCodeValidation, "Invalid request", err)
	}

	donation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.policy.Allow(actor, ActionUpdateFields, donation); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return donation.ToResponse(), nil
	}

	now := s.clock.Now()

	if req.Title != nil {
		donation.Title = *req.Title
	}
	if req.Description != nil {
		donation.Description = *req.Description
	}
	if req.ImageRef != nil {
		donation.ImageRef = req.ImageRef
	}
	if req.Quantity != nil {
		donation.Quantity = *req.Quantity
	}
	if req.ExpiryAt != nil {
		if !req.ExpiryAt.After(now) {
			return nil, model.NewDonationError(model.ErrCodeValidation, "Invalid request", model.ErrExpiryInPast)
		}
		donation.ExpiryAt = *req.ExpiryAt
	}
	donation.UpdatedAt = now

	if err := s.repo.UpdateIfAvailable(ctx, donation); err != nil {
		return nil, err
	}

	s.invalidateFeedCache(ctx)

	return donation.ToResponse(), nil
}

// =====================================================
// FEEDS
// =====================================================
func (s *donationService) AvailableFeed(ctx context.Context, req model.FeedRequest) (*model.FeedResponse, error) {
	req.Normalize(s.defaultPageSize, s.maxPageSize)

	cacheKey := fmt.Sprintf("%spage:%d:limit:%d", feedCacheKeyPrefix, req.Page, req.Limit)

	var cached model.FeedResponse
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		// A broken cache degrades to a database read.
		logger.Error("Feed cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	offset := (req.Page - 1) * req.Limit
	donations, total, err := s.repo.ListAvailable(ctx, s.clock.Now(), req.Limit, offset)
	if err != nil {
		return nil, err
	}

	feed := buildFeedResponse(donations, total)

	if err := s.cache.Set(ctx, cacheKey, feed, s.feedCacheTTL); err != nil {
		logger.Error("Feed cache write failed", err)
	}

	return feed, nil
}

func (s *donationService) OwnerFeed(ctx context.Context, actor Actor, req model.FeedRequest) (*model.FeedResponse, error) {
	if actor.UserID == uuid.Nil {
		return nil, model.ErrForbidden
	}

	req.Normalize(s.defaultPageSize, s.maxPageSize)
	offset := (req.Page - 1) * req.Limit

	donations, total, err := s.repo.ListByOwner(ctx, actor.UserID, req.Limit, offset)
	if err != nil {
		return nil, err
	}

	return buildFeedResponse(donations, total), nil
}

// =====================================================
// IMAGE UPLOAD
// =====================================================
func (s *donationService) UploadImage(ctx context.Context, actor Actor, data []byte) (*model.UploadImageResponse, error) {
	if err := s.policy.Allow(actor, ActionPublish, nil); err != nil {
		return nil, err
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return nil, model.NewDonationError(model.ErrCodeValidation, "Invalid image", err)
	}

	variants, err := s.processor.ProcessImage(data)
	if err != nil {
		return nil, model.NewDonationError(model.ErrCodeValidation, "Cannot process image", err)
	}

	imageID := uuid.New()
	prefix := fmt.Sprintf("donations/%s", imageID)

	urls := make(map[string]string, len(variants))
	for name, body := range variants {
		key := fmt.Sprintf("%s/%s.jpg", prefix, name)
		url, err := s.storage.Upload(ctx, key, body, "image/jpeg")
		if err != nil {
			logger.Error("Image upload failed", err)
			return nil, model.NewDonationError(model.ErrCodeStorage, "Image storage unavailable", err)
		}
		urls[name] = url
	}

	return &model.UploadImageResponse{
		ImageRef: prefix,
		Variants: urls,
	}, nil
}

// =====================================================
// EXPIRY SWEEP
// =====================================================
func (s *donationService) SweepExpired(ctx context.Context, batchSize int) (int64, error) {
	swept, err := s.repo.SweepExpired(ctx, s.clock.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		s.invalidateFeedCache(ctx)
		logger.Info("Expired donations swept", map[string]interface{}{
			"count": swept,
		})
	}

	return swept, nil
}

// =====================================================
// HELPERS
// =====================================================
func buildFeedResponse(donations []model.Donation, total int) *model.FeedResponse {
	items := make([]*model.DonationResponse, 0, len(donations))
	for i := range donations {
		items = append(items, donations[i].ToResponse())
	}
	return &model.FeedResponse{
		Donations: items,
		Total:     total,
	}
}

// invalidateFeedCache drops every cached feed page so readers see their own
// writes on the next request.
func (s *donationService) invalidateFeedCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, feedCacheKeyPrefix+"*"); err != nil {
		logger.Error("Feed cache invalidation failed", err)
	}
}

// enqueueImageCleanup schedules removal of the donation's stored images.
func (s *donationService) enqueueImageCleanup(donation *model.Donation) {
	if s.asynq == nil || donation.ImageRef == nil || *donation.ImageRef == "" {
		return
	}

	payload, err := json.Marshal(shared.DeleteDonationImagesPayload{Prefix: *donation.ImageRef})
	if err != nil {
		logger.Error("Marshal image cleanup payload failed", err)
		return
	}

	task := asynq.NewTask(shared.TypeDeleteDonationImages, payload)
	if _, err := s.asynq.Enqueue(task, asynq.Queue(shared.QueueDonation), asynq.MaxRetry(3)); err != nil {
		logger.Error("Enqueue image cleanup failed", err)
	}
}
