package headers

import (
	"net/textproto"
	"strings"
)

// ParseHeaders turns repeated --header values of the form "Key: Value" into a
// header map. Keys are canonicalized ("user-agent" becomes "User-Agent") so a
// later flag overrides an earlier one regardless of case. Entries without a
// colon or with an empty name are dropped.
func ParseHeaders(raw []string) map[string]string {
	out := make(map[string]string, len(raw))
	for _, line := range raw {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		name := strings.TrimSpace(line[:i])
		if name == "" || strings.ContainsAny(name, " \t") {
			continue
		}
		out[textproto.CanonicalMIMEHeaderKey(name)] = strings.TrimSpace(line[i+1:])
	}
	return out
}
