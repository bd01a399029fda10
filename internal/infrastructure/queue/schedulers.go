package queue

import (
	"encoding/json"
	"time"

	"mealmates-backend/internal/config"
	"mealmates-backend/internal/shared"
	"mealmates-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler      *asynq.Scheduler
	donationConfig config.DonationConfig
}

func NewScheduler(redisCfg config.RedisConfig, donationConfig config.DonationConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Host,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:      scheduler,
		donationConfig: donationConfig,
	}
}

func (s *Scheduler) RegisterPeriodicJobs() error {
	return s.registerSweepExpiredDonationsJob()
}

// Sweep expired donations every 5 minutes. Feed reads already filter on
// expiry_at, so the sweep only has to reconcile stored status within a
// bounded staleness window.
func (s *Scheduler) registerSweepExpiredDonationsJob() error {
	payload, err := json.Marshal(shared.SweepExpiredPayload{
		BatchSize: s.donationConfig.ExpirySweepBatch,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepExpiredDonations, payload)

	_, err = s.scheduler.Register(
		"*/5 * * * *",
		task,
		asynq.Queue(shared.QueueDonation),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register SweepExpiredDonations job", err)
		return err
	}

	logger.Info("Registered SweepExpiredDonations: every 5 minutes", map[string]interface{}{
		"batch_size": s.donationConfig.ExpirySweepBatch,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
