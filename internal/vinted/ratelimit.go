package vinted

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound requests toward Vinted with a token bucket. A nil
// Pacer performs no pacing, so callers never need to branch.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer with the given per-second rate and burst size.
func NewPacer(perSecond float64, burst int) *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the pacer allows the next request, or the context is
// canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacer wait: %w", err)
	}
	return nil
}
