package filter

import "strings"

// ParseKV splits a "key=value" token at the first '='. The keyword is
// lowercased and trimmed; the value is trimmed but keeps its case. A token
// without '=' yields a nil value, which callers treat as a presence check.
func ParseKV(token string) (keyword string, value *string) {
	key, rest, found := strings.Cut(token, "=")
	keyword = strings.ToLower(strings.TrimSpace(key))
	if !found {
		return keyword, nil
	}
	v := strings.TrimSpace(rest)
	return keyword, &v
}

// ParseSpec parses a token into a Spec carrying the given regex flag.
func ParseSpec(token string, isRegex bool) Spec {
	keyword, value := ParseKV(token)
	return Spec{Keyword: keyword, Value: value, IsRegex: isRegex}
}
