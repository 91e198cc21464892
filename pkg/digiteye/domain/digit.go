package domain

import (
	"strings"

	"kgeyst.com/digiteye/pkg/common"
)

// ExtractDigit finds the recognized digit in the model's answer: the first non-empty line, once markdown emphasis
// and quotes are stripped, must be exactly one character 0-9.
func ExtractDigit(answer string) (rune, bool) {
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Trim(line, "*_` .")
		line = common.TrimQuotes(line)
		if len(line) == 1 && line[0] >= '0' && line[0] <= '9' {
			return rune(line[0]), true
		}
		return 0, false
	}
	return 0, false
}
