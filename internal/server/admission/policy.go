package admission

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// Window is the length of every sliding window.
const Window = time.Minute

// Policy is the quota handed to the oracle.
type Policy struct {
	Window time.Duration
	Max    int
}

// Limit is the per-window request ceiling for role. Unknown roles get the
// guest ceiling.
func Limit(role models.Role) int {
	switch role {
	case models.RoleAdmin:
		return 20
	case models.RoleUser:
		return 10
	default:
		return 5
	}
}

// PolicyFor returns the policy applied to role.
func PolicyFor(role models.Role) Policy {
	return Policy{Window: Window, Max: Limit(role)}
}

// Key scopes the counter to role and client.
func Key(role models.Role, client string) string {
	return fmt.Sprintf("%s-rate-limit:%s", role, client)
}
