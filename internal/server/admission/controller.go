package admission

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// Controller applies the role-derived policy to each request.
type Controller struct {
	oracle  Oracle
	logger  logging.Logger
	metrics *Metrics
}

func NewController(oracle Oracle, logger logging.Logger, metrics *Metrics) *Controller {
	return &Controller{oracle: oracle, logger: logger, metrics: metrics}
}

// Admit decides on req for principal (nil for a guest). Oracle failures are
// returned as errors and never turned into a decision.
func (c *Controller) Admit(ctx context.Context, principal *models.Principal, req Request) (Decision, error) {
	role := models.RoleOf(principal)
	key := Key(role, req.ClientIP)

	d, err := c.oracle.Evaluate(ctx, key, req, PolicyFor(role))
	if err != nil {
		c.metrics.observe(role.String(), outcomeError, ReasonNone.String())
		c.logger.Error(ctx, "admission oracle failed", "role", role, "key", key, "error", err)
		return Decision{}, fmt.Errorf("admission: %w", err)
	}

	if d.Allowed() {
		c.metrics.observe(role.String(), outcomeAllowed, ReasonNone.String())
		return d, nil
	}

	c.metrics.observe(role.String(), outcomeDenied, d.Reason().String())
	fields := []any{"ip", req.ClientIP, "user_agent", req.UserAgent, "path", req.Path, "role", role}
	switch d.Reason() {
	case ReasonBot:
		c.logger.Warn(ctx, "bot request blocked", fields...)
	case ReasonShield:
		c.logger.Warn(ctx, "shield blocked request", append(fields, "method", req.Method)...)
	case ReasonRateLimit:
		c.logger.Warn(ctx, "rate limit exceeded", append(fields, "limit", Limit(role))...)
	}
	return d, nil
}
