package meta

import (
	"os"
	"strings"
	"unicode"
)

const envExprPrefix = "${env."

// expandEnvExpr substitutes ${env.NAME} expressions with the value of the
// NAME environment variable. Unset variables expand to an empty string and
// anything that does not form a well formed expression stays literal.
func expandEnvExpr(value string) string {
	if !strings.Contains(value, envExprPrefix) {
		return value
	}
	var out strings.Builder
	out.Grow(len(value))
	rest := value
	for {
		at := strings.Index(rest, envExprPrefix)
		if at < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:at])
		rest = rest[at+len(envExprPrefix):]
		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			// Unterminated expression, keep the tail as is.
			out.WriteString(envExprPrefix)
			out.WriteString(rest)
			return out.String()
		}
		name := rest[:closing]
		if !validEnvName(name) {
			// Keep the marker literal and rescan what follows it so that
			// inner expressions still expand.
			out.WriteString(envExprPrefix)
			continue
		}
		out.WriteString(os.Getenv(name))
		rest = rest[closing+1:]
	}
}

func validEnvName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
