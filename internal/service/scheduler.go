package service

import (
	"context"
	"time"

	"envizi_webhook/internal/repository"
	"envizi_webhook/pkg/logger"
)

// Scheduler periodically executes webhooks whose schedule is due.
type Scheduler struct {
	svc      *Service
	webhooks *repository.WebhookRepo
	tick     time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(svc *Service, webhooks *repository.WebhookRepo, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Minute
	}
	return &Scheduler{
		svc:      svc,
		webhooks: webhooks,
		tick:     tick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduling loop in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		logger.Infof("Scheduler started with tick %s", s.tick)
		for {
			select {
			case <-ticker.C:
				s.runDue(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	logger.Info("Scheduler stopped")
}

func (s *Scheduler) runDue(ctx context.Context) {
	webhooks, err := s.webhooks.ListScheduled(ctx)
	if err != nil {
		logger.Errorf("Listing scheduled webhooks: %v", err)
		return
	}
	now := time.Now()
	for _, cfg := range webhooks {
		if cfg.Scheduler.NextRun != nil && cfg.Scheduler.NextRun.After(now) {
			continue
		}
		logger.Infof("Scheduler running webhook %s (%s)", cfg.ID, cfg.Name)
		if _, err := s.svc.Execute(ctx, cfg.ID); err != nil {
			logger.Errorf("Scheduled run of %s: %v", cfg.ID, err)
		}
		next := now.Add(time.Duration(cfg.Scheduler.Interval) * time.Minute)
		if err := s.webhooks.UpdateSchedulerRun(ctx, cfg.ID, now, next); err != nil {
			logger.Errorf("Updating schedule for %s: %v", cfg.ID, err)
		}
	}
}
