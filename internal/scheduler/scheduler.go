package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-history-aggregation/internal/logger"
)

// Refresher recomputes and stores the climatology report for one place.
type Refresher interface {
	Refresh(ctx context.Context, place string) error
}

// Scheduler periodically refreshes reports for the tracked places.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	refresher  Refresher
	places     []string
	interval   time.Duration
	jobTimeout time.Duration
	log        logger.Logger
}

// New creates a new Scheduler.
func New(places []string, interval time.Duration, refresher Refresher) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		refresher:  refresher,
		places:     places,
		interval:   interval,
		jobTimeout: 5 * time.Minute,
		log:        logger.Named("scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	ctx := context.Background()
	if len(s.places) == 0 {
		s.log.Info(ctx, "no places configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Minute {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every tracked place concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	s.log.Info(ctx, "running climatology refresh", logger.Int("places", len(s.places)))

	var wg sync.WaitGroup
	for _, place := range s.places {
		place := place
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			defer cancel()

			if err := s.refresher.Refresh(ctx, place); err != nil {
				s.log.Error(ctx, "refresh failed", logger.String("place", place), logger.Error(err))
			}
		}()
	}
	wg.Wait()
	s.log.Info(ctx, "completed climatology refresh")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
