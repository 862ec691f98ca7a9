// Package scheduler runs the background job that publishes scheduled posts.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"ripple/internal/middleware"
	"ripple/internal/observability"

	"github.com/robfig/cron"
)

// Publisher promotes due scheduled posts; satisfied by service.PostService.
type Publisher interface {
	PublishDue(ctx context.Context, now time.Time) (int, error)
}

// interval is how often due posts are checked. Publication can therefore lag
// the scheduled time by up to a minute; the order within a batch is oldest
// first.
const interval = "@every 1m"

// runTimeout caps a single sweep so a wedged database cannot pile up runs.
const runTimeout = 30 * time.Second

// Scheduler owns the cron loop that promotes due scheduled posts. It assumes
// a single running instance; the idempotent publish step keeps an accidental
// second instance from corrupting counts, but posts may then be announced
// twice.
type Scheduler struct {
	posts Publisher
	cron  *cron.Cron
}

func New(posts Publisher) *Scheduler {
	return &Scheduler{posts: posts, cron: cron.New()}
}

// Start begins the publishing loop. One sweep runs immediately so a restart
// never delays overdue posts by another interval.
func (s *Scheduler) Start() error {
	if err := s.cron.AddFunc(interval, s.run); err != nil {
		return err
	}
	s.cron.Start()
	go s.run()
	return nil
}

// Stop halts the cron loop. A sweep already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	published, err := s.posts.PublishDue(ctx, time.Now())
	if err != nil {
		observability.SchedulerRunFailures.Inc()
		middleware.Logger.Error("scheduled post sweep failed", slog.Any("error", err))
		return
	}
	if published > 0 {
		observability.ScheduledPostsPublished.Add(float64(published))
		middleware.Logger.Info("published scheduled posts", slog.Int("count", published))
	}
}
