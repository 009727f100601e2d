package admin

import "strings"

// Allowlist is the static set of administrator emails consulted for
// delegated providers. The credential-exchange provider never uses it:
// the registry record is authoritative for its own users.
//
// Immutable after ParseAllowlist; safe for concurrent use.
type Allowlist struct {
	emails map[string]struct{}
}

// ParseAllowlist parses the comma-separated administrator list from
// configuration. Entries are trimmed and lower-cased; empty entries are
// dropped. An empty value yields an allow-list that grants nothing.
func ParseAllowlist(raw string) *Allowlist {
	emails := make(map[string]struct{})
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		emails[entry] = struct{}{}
	}
	return &Allowlist{emails: emails}
}

// IsAdmin reports whether the identity's email or, when present, its
// preferred username matches the allow-list, case-insensitively.
// Anything absent or ambiguous resolves to false: fail closed.
func (a *Allowlist) IsAdmin(email, preferredUsername string) bool {
	if a == nil || len(a.emails) == 0 {
		return false
	}
	if match(a.emails, email) {
		return true
	}
	return match(a.emails, preferredUsername)
}

func match(set map[string]struct{}, v string) bool {
	if v == "" {
		return false
	}
	_, ok := set[strings.ToLower(strings.TrimSpace(v))]
	return ok
}
