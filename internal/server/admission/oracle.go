package admission

import (
	"context"
	"fmt"
)

// Oracle turns a request and its quota into a Decision. An error means no
// decision could be reached.
type Oracle interface {
	Evaluate(ctx context.Context, key string, req Request, p Policy) (Decision, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, key string, req Request, p Policy) (Decision, error)

func (f OracleFunc) Evaluate(ctx context.Context, key string, req Request, p Policy) (Decision, error) {
	return f(ctx, key, req, p)
}

// Guard is the production Oracle. Checks run in priority order bot, shield,
// rate limit; the first that fires wins, and only requests passing the first
// two are counted against the quota.
type Guard struct {
	bots   BotDetector
	shield *Shield
	window SlidingWindow
}

func NewGuard(window SlidingWindow) *Guard {
	return &Guard{shield: NewShield(), window: window}
}

func (g *Guard) Evaluate(ctx context.Context, key string, req Request, p Policy) (Decision, error) {
	if g.bots.IsBot(req.UserAgent) {
		return Deny(ReasonBot), nil
	}
	if g.shield.Blocks(req) {
		return Deny(ReasonShield), nil
	}

	allowed, _, err := g.window.Take(ctx, key, p)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit: %w", err)
	}
	if !allowed {
		return Deny(ReasonRateLimit), nil
	}
	return Allow(), nil
}
