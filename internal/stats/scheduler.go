package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wxllspace/wxllspace-backend/internal/logging"
)

const refreshTimeout = 30 * time.Second

// Scheduler refreshes the cached counts on a cron spec with seconds.
type Scheduler struct {
	svc  *Service
	cron *cron.Cron
}

func NewScheduler(svc *Service) *Scheduler {
	return &Scheduler{svc: svc, cron: cron.New(cron.WithSeconds())}
}

// Start registers the refresh job and starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("failed to create stats refresh job: %w", err)
	}
	s.cron.Start()
	logging.L().Sugar().Infof("Stats refresh scheduled (%s)", spec)
	return nil
}

// Stop halts the runner. The returned context is done once a running job
// has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	st, err := s.svc.Refresh(ctx)
	if err != nil {
		return
	}
	logging.NewLogger(ctx).LogInfof("stats.Refresh", "artists=%d walls=%d projects=%d", st.Artists, st.Walls, st.Projects)
}
