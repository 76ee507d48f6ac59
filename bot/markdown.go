package bot

import (
	"strings"

	"github.com/paperreader/paperbot/core"
)

// FormatSummary renders a paper's summary as the Zulip markdown block
// posted when a paper completes: quoted title, source links, topic,
// abstract bullets, then analysis and conclusion paragraphs.
func FormatSummary(paper *core.Paper) string {
	s := paper.Summary

	var b strings.Builder
	b.WriteString("> ### " + s.Title + "\n")
	b.WriteString("> [huggingface](" + paper.SourceLink + "), [pdf](" + paper.PDFLink + ")\n\n")
	b.WriteString(">#### Topic: " + s.Topic + "\n\n")
	b.WriteString(">#### Abstract: \n> - " + strings.Join(s.Abstract, "\n> - ") + "\n\n")
	b.WriteString("> " + s.Analysis + "\n\n")
	b.WriteString("> " + s.Conclusion + "\n\n")

	return b.String()
}

// FormatReply renders an answer as a quote-reply to the asker.
func FormatReply(senderFullName, question, answer string) string {
	var b strings.Builder
	b.WriteString("@_**" + senderFullName + "** asked:\n")
	b.WriteString("```quote\n" + question + "\n```\n\n")
	b.WriteString(answer)
	return b.String()
}
