package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"mealmates-backend/internal/infrastructure/storage"
	"mealmates-backend/internal/shared"
)

// DeleteImagesHandler removes all stored image variants of a removed donation.
type DeleteImagesHandler struct {
	storage *storage.MinIOStorage
}

func NewDeleteImagesHandler(store *storage.MinIOStorage) *DeleteImagesHandler {
	return &DeleteImagesHandler{
		storage: store,
	}
}

func (h *DeleteImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteDonationImagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteDonationImages payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.Prefix == "" {
		return nil
	}

	log.Info().
		Str("prefix", payload.Prefix).
		Msg("Deleting donation images")

	if err := h.storage.DeleteByPrefix(ctx, payload.Prefix); err != nil {
		log.Error().
			Err(err).
			Str("prefix", payload.Prefix).
			Msg("Failed to delete donation images")
		return fmt.Errorf("delete images: %w", err)
	}

	log.Info().
		Str("prefix", payload.Prefix).
		Msg("Donation images deleted successfully")

	return nil
}
