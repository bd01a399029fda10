package shared

// Task types routed through asynq. Grouped by domain.
const (
	TypeSweepExpiredDonations = "donation:sweep_expired"
	TypeDeleteDonationImages  = "donation:delete_images"
)

// Queue names, ordered by priority in the worker config.
const (
	QueueCritical = "critical"
	QueueDonation = "donation"
	QueueDefault  = "default"
)

// SweepExpiredPayload is the payload for the periodic expiry sweep.
type SweepExpiredPayload struct {
	BatchSize int `json:"batchSize"`
}

// DeleteDonationImagesPayload carries the storage prefix of a removed
// donation whose images should be cleaned up.
type DeleteDonationImagesPayload struct {
	Prefix string `json:"prefix"`
}
