// statbank/error_text.go
package statbank

import (
	"bytes"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxErrorText = 300

var whitespaceRun = regexp.MustCompile(`\s+`)

// upstreamErrorText turns an error response body into one readable line.
// The API itself answers with {"message": ...}; gateways in front of it
// answer with HTML pages.
func upstreamErrorText(body []byte, contentType string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "empty response body"
	}

	var apiErr struct {
		ErrorTypeCode string `json:"errorTypeCode"`
		Message       string `json:"message"`
	}
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &apiErr) == nil && apiErr.Message != "" {
		if apiErr.ErrorTypeCode != "" {
			return truncate(apiErr.ErrorTypeCode + ": " + apiErr.Message)
		}
		return truncate(apiErr.Message)
	}

	if trimmed[0] == '<' || strings.Contains(strings.ToLower(contentType), "text/html") {
		return truncate(htmlToPlainText(trimmed))
	}
	return truncate(string(trimmed))
}

// htmlToPlainText extracts the visible text of an HTML page, preferring the
// title and body over scripts and styles.
func htmlToPlainText(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		log.Printf("WARN Statbank: could not parse HTML error page: %v\n", err)
		return whitespaceRun.ReplaceAllString(string(page), " ")
	}
	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	body := strings.TrimSpace(whitespaceRun.ReplaceAllString(doc.Find("body").Text(), " "))
	switch {
	case title != "" && body != "" && !strings.HasPrefix(body, title):
		return title + " - " + body
	case body != "":
		return body
	default:
		return title
	}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorText {
		return s
	}
	return s[:maxErrorText] + "..."
}
