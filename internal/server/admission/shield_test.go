package admission

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShield(t *testing.T) {
	s := NewShield()

	q := func(k, v string) url.Values { return url.Values{k: {v}} }

	blocked := []Request{
		{Path: "/api/users", Query: q("id", "1 UNION SELECT password FROM users")},
		{Path: "/api/users", Query: q("email", "' OR '1'='1")},
		{Path: "/api/users", Query: q("id", "1 or 1=1")},
		{Path: "/api/users", Query: q("id", "1; DROP TABLE users")},
		{Path: "/api/users", Query: q("q", "<script>alert(1)</script>")},
		{Path: "/api/users", Query: q("q", "<b>bold</b>")},
		{Path: "/api/users", Query: q("next", "javascript:alert(1)")},
		{Path: "/api/../../etc/passwd"},
		{Path: "/api/users", Query: q("file", "../../secret")},
		{Path: "/api/users", Query: q("q", `<img src=x onerror=alert(1)>`)},
		{Path: "/api/<svg onload=alert(1)>"},
	}
	for _, r := range blocked {
		assert.True(t, s.Blocks(r), "%+v", r)
	}

	allowed := []Request{
		{Path: "/"},
		{Path: "/api/users/42"},
		{Path: "/api/users", Query: q("q", "hello world")},
		{Path: "/api/users", Query: q("email", "a+b@example.com")},
		{Path: "/api/users", Query: q("sort", "created_at desc")},
		{Path: "/api/users", Query: q("name", "Tom & Jerry")},
		{Path: "/api/users", Query: q("filter", "online=true")},
		{Path: "/api/users", Query: q("q", "one=two")},
		{Path: "/api/users", Query: q("where", "condition = ok")},
	}
	for _, r := range allowed {
		assert.False(t, s.Blocks(r), "%+v", r)
	}
}
