package qa

import (
	"regexp"
	"strings"
)

// quotePattern matches the reply form Zulip produces when a user
// quotes a message: a fenced quote block followed by their own text.
var quotePattern = regexp.MustCompile("(?s)```quote\n(.*?)\n```\n(.*)")

// ExtractQuestion pulls the asker's question out of a raw message.
// The message must mention the bot by name; anything else is not
// addressed to us and yields ok=false, which callers treat as a no-op
// rather than an error. When the quote block is present the question
// is the text after it; otherwise the text after the last code fence.
func ExtractQuestion(content, botName string) (string, bool) {
	if !mentionsBot(content, botName) {
		return "", false
	}

	if m := quotePattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[2]), true
	}

	parts := strings.Split(content, "```")
	question := strings.TrimSpace(parts[len(parts)-1])
	if question == "" {
		return "", false
	}
	return question, true
}

// mentionsBot reports whether the message quotes or mentions the bot.
// Zulip renders quote-replies as silent mentions (@_**Name**) and
// direct mentions as @**Name**.
func mentionsBot(content, botName string) bool {
	return strings.Contains(content, "@_**"+botName) ||
		strings.Contains(content, "@**"+botName+"**")
}
