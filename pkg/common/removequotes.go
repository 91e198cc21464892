package common

// TrimQuotes removes one pair of matching single or double quotes around the string, if any.
// Models sometimes answer "'7'" or "\"7\"" instead of 7.
func TrimQuotes(str string) string {
	if len(str) < 2 {
		return str
	}
	first, last := str[0], str[len(str)-1]
	if first == last && (first == '\'' || first == '"') {
		return str[1 : len(str)-1]
	}
	return str
}
