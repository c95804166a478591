package oracle

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped client. Callers block until a token
// is free or ctx ends.
type Limited struct {
	next    Client
	limiter *rate.Limiter
}

func NewLimited(next Client, perSecond float64, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *Limited) Complete(ctx context.Context, req Request) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", external(err)
	}
	return l.next.Complete(ctx, req)
}
