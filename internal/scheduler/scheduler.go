package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Sessions is the part of session.Manager the scheduler drives.
type Sessions interface {
	Locations() []weather.Location
	RefreshLocation(ctx context.Context, loc weather.Location) error
	EvictIdle(maxAge time.Duration) int
}

// Scheduler periodically refreshes forecasts for every location on screen
// and drops idle sessions.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	sessions   Sessions
	interval   time.Duration
	sessionTTL time.Duration
}

// New creates a new Scheduler.
func New(sessions Sessions, interval, sessionTTL time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		sessions:   sessions,
		interval:   interval,
		sessionTTL: sessionTTL,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).WaitForSchedule().SingletonMode().Do(s.Run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Run performs one refresh pass.
func (s *Scheduler) Run() {
	if n := s.sessions.EvictIdle(s.sessionTTL); n > 0 {
		log.Printf("scheduler: evicted %d idle sessions", n)
	}

	locs := s.sessions.Locations()
	if len(locs) == 0 {
		return
	}
	log.Printf("scheduler: refreshing forecasts for %d locations", len(locs))

	var wg sync.WaitGroup
	for _, loc := range locs {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.sessions.RefreshLocation(ctx, loc); err != nil {
				log.Printf("scheduler: refresh failed for %s: %v", loc.Key(), err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed forecast refresh")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
