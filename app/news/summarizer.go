package news

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

const summaryMaxLength = 280

type Summarizer struct{}

func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Run extracts a short plain-text summary from an article page. Used for
// scraped sources whose listing markup carries no usable summary.
func (s *Summarizer) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := CleanText(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	return truncateAtWord(text, summaryMaxLength), nil
}

func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
