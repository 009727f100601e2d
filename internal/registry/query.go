package registry

import (
	"fmt"
	"net/url"
	"strings"
)

// Credentials is a single login attempt as supplied by an untrusted
// caller. Values are opaque and must never be logged or persisted.
type Credentials struct {
	Username string
	Password string
}

// FieldMap maps the logical fields this service needs onto the
// registry's physical field names. Loaded once at startup and
// immutable for the process lifetime.
type FieldMap struct {
	Email    string
	Password string
	Enabled  string
	Name     string
	Admin    string
}

// BuildQuery produces the record-export form body for one verification
// attempt: fixed export parameters, the five-field projection, and a
// filterLogic expression requiring simultaneous equality on the email
// and password fields with the enabled flag set.
//
// Credential values enter filterLogic only through quoteLiteral. Direct
// interpolation would let filter metacharacters in a username or
// password change which records match.
func BuildQuery(creds Credentials, fm FieldMap, apiToken string) url.Values {
	form := url.Values{}

	form.Set("token", apiToken)
	form.Set("content", "record")
	form.Set("action", "export")
	form.Set("format", "json")
	form.Set("type", "flat")

	for i, field := range []string{fm.Email, fm.Password, fm.Enabled, fm.Name, fm.Admin} {
		form.Set(fmt.Sprintf("fields[%d]", i), field)
	}

	form.Set("rawOrLabel", "raw")
	form.Set("rawOrLabelHeaders", "raw")
	form.Set("exportCheckboxLabel", "false")
	form.Set("exportSurveyFields", "false")
	form.Set("exportDataAccessGroups", "false")
	form.Set("returnFormat", "json")

	filter := fmt.Sprintf("[%s] = %s AND [%s] = %s AND [%s] = 1",
		fm.Email, quoteLiteral(creds.Username),
		fm.Password, quoteLiteral(creds.Password),
		fm.Enabled,
	)
	form.Set("filterLogic", filter)

	return form
}

// quoteLiteral renders a credential value as a filter-expression string
// literal: control characters are stripped and embedded single quotes
// doubled, so the value can only ever compare as a literal.
func quoteLiteral(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('\'')
	for _, r := range v {
		if r < 0x20 || r == 0x7f {
			continue
		}
		if r == '\'' {
			b.WriteString("''")
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
