// Package consumer contains interface of background consumers.
package consumer

import (
	"context"
)

//go:generate mockgen -destination=./mock/consumer.go -package=mock -source=consumer.go

// Consumer is a long running background worker.
type Consumer interface {
	// Ping returns error if consumer is not healthy.
	Ping(ctx context.Context) error
	// Run blocks until ctx is done or consumer fails.
	Run(ctx context.Context) error
}
