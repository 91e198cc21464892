package common

import (
	"net/url"
	"path"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageFormat returns true if the URL's path ends with a known image extension. Query strings and letter case are
// ignored, so "https://x.org/Seven.PNG?size=2" counts.
func IsImageFormat(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return IsStringInSlice(strings.ToLower(path.Ext(parsed.Path)), imageExtensions)
}
