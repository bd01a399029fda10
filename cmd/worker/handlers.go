package main

import (
	"github.com/hibiken/asynq"

	donationJob "mealmates-backend/internal/domains/donation/job"
	"mealmates-backend/internal/shared"
	"mealmates-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	sweepExpired *donationJob.SweepExpiredHandler
	deleteImages *donationJob.DeleteImagesHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sweepExpired: donationJob.NewSweepExpiredHandler(c.DonationService),
		deleteImages: donationJob.NewDeleteImagesHandler(c.Storage),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSweepExpiredDonations, h.sweepExpired.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteDonationImages, h.deleteImages.ProcessTask)
}
