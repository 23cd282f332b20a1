package querykit

import (
	"regexp"
	"strings"
)

// bareIdentRe matches unquoted identifiers: alphanumerics and underscore,
// with dots for schema.table-style qualification.
var bareIdentRe = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// quotePairs are the accepted identifier quoting delimiters.
var quotePairs = [][2]byte{
	{'"', '"'},
	{'`', '`'},
	{'[', ']'},
}

// ValidateIdent accepts or rejects a caller-supplied SQL identifier against
// the allow-list grammar: a dotted bare identifier, a string fully wrapped
// in one matching pair of quoting delimiters, or the single character *.
// Anything beyond that grammar is rejected structurally; there is no
// keyword blacklist. The zero return is a *InvalidIdentifierError.
func ValidateIdent(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return NewInvalidIdentifierError(raw)
	}
	if raw == "*" {
		return nil
	}
	if bareIdentRe.MatchString(raw) {
		return nil
	}
	if len(raw) >= 2 {
		for _, pair := range quotePairs {
			if raw[0] != pair[0] || raw[len(raw)-1] != pair[1] {
				continue
			}
			inner := raw[1 : len(raw)-1]
			if inner == "" || strings.ContainsAny(inner, string(pair[0])+string(pair[1])) {
				break
			}
			if strings.ContainsAny(inner, `;'`) ||
				strings.Contains(inner, "--") || strings.Contains(inner, "/*") {
				break
			}
			return nil
		}
	}
	return NewInvalidIdentifierError(raw)
}
