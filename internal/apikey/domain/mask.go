package domain

import (
	"strings"
)

const (
	maxNamespaceLen = 16
	visibleTail     = 4
	redactedRun     = 24
)

// namespace returns the display prefix of secret: the text before the first
// "_" when it is 1 to 16 runes long, otherwise the first 4 runes of secrets
// longer than 8 runes, otherwise "". rest is what follows the prefix and its
// delimiter.
func namespace(secret []rune) (prefix, rest []rune) {
	for i, r := range secret {
		if r != '_' {
			continue
		}
		if i >= 1 && i <= maxNamespaceLen {
			return secret[:i], secret[i+1:]
		}
		break
	}

	if len(secret) > 2*visibleTail {
		return secret[:visibleTail], secret[visibleTail:]
	}
	return nil, secret
}

// ListMask renders secret for list views: "dandi...Wxyz". The last four runes
// are shown only when the body is long enough that they reveal little;
// otherwise they are replaced by "****".
func ListMask(secret string) string {
	prefix, rest := namespace([]rune(secret))

	tail := "****"
	if len(rest) > 2*visibleTail {
		tail = string(rest[len(rest)-visibleTail:])
	}

	return string(prefix) + "..." + tail
}

// RedactedMask renders secret with nothing but its namespace:
// "dandi-************************".
func RedactedMask(secret string) string {
	prefix, _ := namespace([]rune(secret))
	return string(prefix) + "-" + strings.Repeat("*", redactedRun)
}
