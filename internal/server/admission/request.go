package admission

import (
	"net"
	"net/http"
	"net/url"
)

// Request is the part of an HTTP request the oracle looks at.
type Request struct {
	ClientIP  string
	UserAgent string
	Method    string
	Path      string
	Query     url.Values
}

// RequestFromHTTP extracts a Request. The client is the peer address;
// forwarding headers are not trusted.
func RequestFromHTTP(r *http.Request) Request {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return Request{
		ClientIP:  ip,
		UserAgent: r.UserAgent(),
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
	}
}
