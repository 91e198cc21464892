package domain

import "strings"

const DefaultBasePrompt = "Analyze the image, which contains a single handwritten digit (0-9). " +
	"Reply ONLY with the digit you identified on the first line, and then, in a separate paragraph, " +
	"give a solemn and formal description of your finding."

const followUpHeader = "**FOLLOW-UP QUESTION:** "

// BuildPrompt appends the user's follow-up question (if any) to the base instruction.
func BuildPrompt(basePrompt, followUp string) string {
	followUp = strings.TrimSpace(followUp)
	if followUp == "" {
		return basePrompt
	}
	return basePrompt + "\n\n" + followUpHeader + followUp
}
