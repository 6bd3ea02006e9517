// Package promoter contains consumer moving started parties to live status.
package promoter

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/consumer"
	"github.com/fomo-app/fomo/internal/party"
)

var log = logrus.WithField("layer", "consumer").WithField("package", "promoter")

type promoter struct {
	s        party.Service
	interval time.Duration
	now      func() time.Time

	// lastRun is unix nanoseconds of the last successful scan.
	lastRun int64
}

// New creates new instance of promoter scanning parties every interval.
func New(s party.Service, interval time.Duration) consumer.Consumer {
	return &promoter{
		s:        s,
		interval: interval,
		now:      time.Now,
	}
}

func logError(err error) {
	log.WithError(err).Error("failed to promote parties")
}

func (p *promoter) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.promote(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.promote(ctx)
		}
	}
}

func (p *promoter) promote(ctx context.Context) {
	now := p.now()

	promoted, err := p.s.PromoteLive(ctx, now)
	if err != nil {
		logError(err)
		return
	}

	atomic.StoreInt64(&p.lastRun, now.UnixNano())

	if len(promoted) > 0 {
		log.WithField("count", len(promoted)).Info("parties promoted to live")
	}
}

// Ping fails when there was no successful scan during last three intervals.
func (p *promoter) Ping(_ context.Context) error {
	last := atomic.LoadInt64(&p.lastRun)
	if last == 0 {
		return fmt.Errorf("promoter has not completed any scan yet")
	}

	if since := p.now().Sub(time.Unix(0, last)); since > 3*p.interval {
		return fmt.Errorf("last successful scan was %s ago", since.Truncate(time.Second))
	}

	return nil
}
