package sweep

import (
	"context"
	"log/slog"
	"time"
)

// passTimeout bounds one full sweep pass so a stuck database call cannot
// wedge the runner.
const passTimeout = 5 * time.Minute

// Runner executes all sweep jobs on a fixed interval. A cron endpoint can
// trigger the same jobs on demand; the per-job locks keep the two from
// overlapping.
type Runner struct {
	svc      *Service
	interval time.Duration
	log      *slog.Logger

	stop chan struct{}
	done chan struct{}
}

func NewRunner(svc *Service, interval time.Duration, log *slog.Logger) *Runner {
	return &Runner{
		svc:      svc,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop. The first pass runs after one full interval.
func (r *Runner) Start() {
	go r.loop()
}

func (r *Runner) loop() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("sweep runner started", "interval", r.interval)
	for {
		select {
		case <-r.stop:
			r.log.Info("sweep runner stopped")
			return
		case <-ticker.C:
			r.runOnce()
		}
	}
}

func (r *Runner) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()
	r.svc.RunAll(ctx)
}

// Stop signals the loop to exit and waits for the in-flight pass to finish.
func (r *Runner) Stop() {
	close(r.stop)
	<-r.done
}
