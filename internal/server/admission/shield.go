package admission

import (
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sqlInjection    = regexp.MustCompile(`(?i)(\bunion\b\s+(all\s+)?\bselect\b|'\s*or\s+'?\d*'?\s*=|\bor\s+\d+\s*=\s*\d+|;\s*(drop|delete|insert|update|alter|truncate)\b|\bsleep\s*\(|\bbenchmark\s*\(|--\s*$|/\*.*\*/)`)
	scriptInjection = regexp.MustCompile(`(?i)(<\s*script|<\s*iframe|<\s*object|<\s*embed|javascript:|vbscript:|<[^>]*\bon\w+\s*=)`)
	pathTraversal   = regexp.MustCompile(`(\.\./|\.\.\\|%2e%2e|/etc/passwd)`)
)

// Shield blocks requests carrying common injection payloads in the path or
// query string. Bodies are not inspected.
type Shield struct {
	strict *bluemonday.Policy
}

func NewShield() *Shield {
	return &Shield{strict: bluemonday.StrictPolicy()}
}

// Blocks reports whether req should be refused.
func (s *Shield) Blocks(req Request) bool {
	if suspicious(req.Path) {
		return true
	}
	for _, values := range req.Query {
		for _, v := range values {
			if suspicious(v) || s.carriesMarkup(v) {
				return true
			}
		}
	}
	return false
}

func suspicious(v string) bool {
	return sqlInjection.MatchString(v) || scriptInjection.MatchString(v) || pathTraversal.MatchString(v)
}

// carriesMarkup reports whether the strict policy had to strip anything
// from v.
func (s *Shield) carriesMarkup(v string) bool {
	return s.strict.Sanitize(v) != html.EscapeString(v)
}
