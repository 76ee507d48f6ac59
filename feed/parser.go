package feed

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const catalogBaseURL = "https://huggingface.co"

// Entry is one paper discovered in the catalog page. Entries carry the
// catalog metadata only; artifacts and summaries come later.
type Entry struct {
	ID         string
	Title      string
	Authors    []string
	SourceLink string
	PDFLink    string
	Upvotes    int
	Comments   int
}

// Parse extracts paper entries from the catalog markup. Entries that
// lack a title link or an ID are skipped and reported in the second
// return value; the document itself failing to parse is an error.
func Parse(raw []byte) ([]Entry, []*ParseError, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default().With("component", "feed-parser")

	var entries []Entry
	var skipped []*ParseError

	doc.Find("article").Each(func(i int, article *goquery.Selection) {
		entry, perr := parseArticle(i, article)
		if perr != nil {
			logger.Debug("skipping catalog entry", "index", i, "reason", perr.Reason)
			skipped = append(skipped, perr)
			return
		}
		entries = append(entries, *entry)
	})

	return entries, skipped, nil
}

func parseArticle(index int, article *goquery.Selection) (*Entry, *ParseError) {
	titleLink := article.Find("h3 a").First()
	if titleLink.Length() == 0 {
		return nil, &ParseError{Index: index, Reason: "no title link"}
	}

	href, ok := titleLink.Attr("href")
	if !ok || href == "" {
		return nil, &ParseError{Index: index, Reason: "title link has no href"}
	}

	// The paper ID is the last path segment of the detail link,
	// e.g. /papers/2408.01234 -> 2408.01234.
	id := href[strings.LastIndex(href, "/")+1:]
	if id == "" {
		return nil, &ParseError{Index: index, Reason: "empty paper id in " + href}
	}

	title := strings.TrimSpace(titleLink.Text())
	if title == "" {
		return nil, &ParseError{Index: index, Reason: "empty title"}
	}

	entry := &Entry{
		ID:         id,
		Title:      title,
		SourceLink: catalogBaseURL + href,
		PDFLink:    "https://arxiv.org/pdf/" + id + ".pdf",
	}

	article.Find("li.text-gray-600").Each(func(_ int, author *goquery.Selection) {
		name := strings.TrimSpace(author.Text())
		if name != "" {
			entry.Authors = append(entry.Authors, name)
		}
	})

	entry.Upvotes = parseCount(article.Find("div.leading-none").First())

	article.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if strings.Contains(href, "#community") {
			entry.Comments = parseCount(link)
			return false
		}
		return true
	})

	return entry, nil
}

// parseCount reads an integer from an element's text, treating missing
// or malformed values as zero the way the catalog renders them.
func parseCount(sel *goquery.Selection) int {
	if sel.Length() == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(sel.Text()))
	if err != nil {
		return 0
	}
	return n
}
