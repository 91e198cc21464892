package web

import (
	"strings"

	"github.com/mvdan/xurls"

	"kgeyst.com/digiteye/pkg/common"
)

type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

func (u *URLFinder) FindURLs(str string) []string {
	return xurls.Relaxed.FindAllString(str, -1)
}

// FindImageURL returns the first URL in `str` which looks like an image, and the rest of the text without it
// (usually the user's question).
func (u *URLFinder) FindImageURL(str string) (imageURL string, rest string, ok bool) {
	for _, url := range u.FindURLs(str) {
		if common.IsImageFormat(url) {
			return url, strings.TrimSpace(strings.Replace(str, url, "", 1)), true
		}
	}
	return "", strings.TrimSpace(str), false
}
