package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// SessionSweeper periodically drops sessions that have been idle for longer
// than MaxIdle.
type SessionSweeper struct {
	Sessions *Sessions
	Interval time.Duration
	MaxIdle  time.Duration
	Logger   log.FieldLogger
}

func NewSessionSweeper(sessions *Sessions, interval, maxIdle time.Duration) *SessionSweeper {
	return &SessionSweeper{
		Sessions: sessions,
		Interval: interval,
		MaxIdle:  maxIdle,
		Logger:   log.StandardLogger(),
	}
}

// Run sweeps every Interval until ctx is done.
func (s *SessionSweeper) Run(ctx context.Context) {
	if s.Interval <= 0 || s.MaxIdle <= 0 {
		return
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.SweepOnce(now)
		}
	}
}

// SweepOnce drops sessions idle at now and returns how many were removed.
func (s *SessionSweeper) SweepOnce(now time.Time) int {
	removed := s.Sessions.Sweep(now.Add(-s.MaxIdle))
	if removed > 0 {
		s.Logger.WithFields(log.Fields{
			"removed":   removed,
			"remaining": s.Sessions.Len(),
		}).Info("swept idle sessions")
	}
	return removed
}
