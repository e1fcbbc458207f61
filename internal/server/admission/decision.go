// Package admission decides, per request, whether the caller may proceed.
// The decision combines bot detection, a request shield and a role-scoped
// sliding-window quota kept in redis.
package admission

// Reason classifies a denial. ReasonNone is only carried by allowed
// decisions.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonBot
	ReasonShield
	ReasonRateLimit
)

func (r Reason) String() string {
	switch r {
	case ReasonBot:
		return "bot"
	case ReasonShield:
		return "shield"
	case ReasonRateLimit:
		return "rate-limit"
	default:
		return "none"
	}
}

// Decision is either allowed, or denied with a reason. The zero value is
// an allowed decision.
type Decision struct {
	denied bool
	reason Reason
}

func Allow() Decision { return Decision{} }

// Deny returns a denial. ReasonNone is promoted to ReasonShield so a denied
// decision always names a reason.
func Deny(r Reason) Decision {
	if r == ReasonNone {
		r = ReasonShield
	}
	return Decision{denied: true, reason: r}
}

func (d Decision) Allowed() bool { return !d.denied }

// Reason returns ReasonNone for allowed decisions.
func (d Decision) Reason() Reason { return d.reason }

func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return "deny(" + d.reason.String() + ")"
}
