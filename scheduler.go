package codorbits

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

// Scheduler refreshes the content cache on a cron spec.
type Scheduler struct {
	cron   *cron.Cron
	cache  *ContentCache
	logger *log.Logger
}

// NewScheduler registers the warm-up job for spec (e.g. "@every 5m").
func NewScheduler(cache *ContentCache, spec string, logger *log.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cache:  cache,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(spec, s.warm); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	start := time.Now()
	snap := s.cache.Refresh(ctx)
	s.logger.Infof("content cache warmed: %d lessons, %d sections (%s)", len(snap.Posts), len(snap.Sections), time.Since(start))
}

// Start runs the job once in the background and then on schedule.
func (s *Scheduler) Start() {
	go s.warm()
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
