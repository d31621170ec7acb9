package service

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// SleepPacer waits a uniformly random duration between units of work,
// the anti-throttling pacing applied between downloads.
type SleepPacer struct {
	min time.Duration
	max time.Duration
	log *zap.SugaredLogger
}

// NewSleepPacer builds a pacer sleeping between minSeconds and
// maxSeconds. A max below min is raised to min.
func NewSleepPacer(minSeconds, maxSeconds float64, log *zap.SugaredLogger) *SleepPacer {
	if maxSeconds < minSeconds {
		maxSeconds = minSeconds
	}
	return &SleepPacer{
		min: time.Duration(minSeconds * float64(time.Second)),
		max: time.Duration(maxSeconds * float64(time.Second)),
		log: log,
	}
}

// Wait blocks for a random duration in [min, max] or until ctx is done.
func (p *SleepPacer) Wait(ctx context.Context) error {
	d := p.min
	if p.max > p.min {
		d += time.Duration(rand.Int64N(int64(p.max-p.min) + 1))
	}
	p.log.Infof("sleeping for %.1f seconds before next download...", d.Seconds())

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
