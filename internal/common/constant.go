package common

// SessionCookieName is the name of the HTTP cookie that carries the signed
// session token.
const SessionCookieName = "token"

// DefaultBcryptCost is the bcrypt work factor used when none is configured.
const DefaultBcryptCost = 10
