package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlist_CaseInsensitiveEmail(t *testing.T) {
	t.Parallel()

	list := ParseAllowlist("Admin@Example.org, other@example.org")

	assert.True(t, list.IsAdmin("admin@example.org", ""))
	assert.True(t, list.IsAdmin("ADMIN@EXAMPLE.ORG", ""))
	assert.False(t, list.IsAdmin("user@example.org", ""))
}

func TestAllowlist_PreferredUsernameFallback(t *testing.T) {
	t.Parallel()

	list := ParseAllowlist("admin@tenant.example")

	assert.True(t, list.IsAdmin("personal@gmail.example", "admin@tenant.example"))
	assert.False(t, list.IsAdmin("personal@gmail.example", "user@tenant.example"))
}

func TestAllowlist_FailsClosed(t *testing.T) {
	t.Parallel()

	assert.False(t, ParseAllowlist("").IsAdmin("anyone@example.org", ""))
	assert.False(t, ParseAllowlist(" , ,").IsAdmin("anyone@example.org", ""))
	assert.False(t, ParseAllowlist("admin@example.org").IsAdmin("", ""))

	var nilList *Allowlist
	assert.False(t, nilList.IsAdmin("admin@example.org", ""))
}

func TestAllowlist_TrimsEntries(t *testing.T) {
	t.Parallel()

	list := ParseAllowlist("  admin@example.org  ,second@example.org")
	assert.True(t, list.IsAdmin("admin@example.org", ""))
	assert.True(t, list.IsAdmin("second@example.org", ""))
}
