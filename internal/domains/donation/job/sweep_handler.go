package job

import (
	"context"
	"encoding/json"

	"mealmates-backend/internal/domains/donation/service"
	"mealmates-backend/internal/shared"
	"mealmates-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const defaultSweepBatchSize = 500

// SweepExpiredHandler promotes past-expiry donations to expired.
// The sweep runs in batches of conditional updates, so it cannot clobber a
// claim that lands while it scans.
type SweepExpiredHandler struct {
	donationService service.Service
}

func NewSweepExpiredHandler(donationService service.Service) *SweepExpiredHandler {
	return &SweepExpiredHandler{
		donationService: donationService,
	}
}

func (h *SweepExpiredHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SweepExpiredPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal sweep payload failed", err)
		return err
	}

	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}

	log.Info().
		Int("batch_size", batchSize).
		Msg("Starting expired donation sweep")

	var total int64
	for {
		swept, err := h.donationService.SweepExpired(ctx, batchSize)
		if err != nil {
			logger.Error("Expiry sweep failed", err)
			return err
		}

		total += swept
		if swept < int64(batchSize) {
			break
		}
	}

	log.Info().
		Int64("donations_expired", total).
		Msg("Expired donation sweep finished")

	return nil
}
