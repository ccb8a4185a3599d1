package sources

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/akardan/newsbrief/app/news"
)

var errNoEntries = errors.New("no entries matched")

// ScrapeAdapter applies a declarative extraction rule set against fetched
// markup. Entries without the minimum required fields (title and link) are
// skipped; zero surviving entries is an adapter failure.
type ScrapeAdapter struct {
	desc      Descriptor
	client    *http.Client
	userAgent string
}

func NewScrapeAdapter(desc Descriptor, client *http.Client, userAgent string) *ScrapeAdapter {
	return &ScrapeAdapter{
		desc:      desc,
		client:    client,
		userAgent: userAgent,
	}
}

func (a *ScrapeAdapter) Label() string {
	return a.desc.Label
}

func (a *ScrapeAdapter) BaseURL() string {
	return a.desc.URL
}

func (a *ScrapeAdapter) Fetch(ctx context.Context) ([]news.RawItem, error) {
	data, err := fetchBody(ctx, a.client, a.desc.URL, a.userAgent)
	if err != nil {
		return nil, &FetchError{Source: a.desc.Label, Op: "fetch", Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FetchError{Source: a.desc.Label, Op: "parse", Err: err}
	}

	rules := a.desc.Rules
	var items []news.RawItem

	doc.Find(rules.Container).Each(func(i int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(rules.Title).First().Text())
		link := a.extractLink(sel)

		if title == "" || link == "" {
			slog.Debug("Skipping entry without required fields", "source", a.desc.Label, "index", i)
			return
		}

		raw := news.RawItem{
			Kind:  news.KindText,
			Title: title,
			URL:   link,
		}

		if rules.Summary != "" {
			raw.Summary = strings.TrimSpace(sel.Find(rules.Summary).First().Text())
		}

		if rules.Date != "" {
			raw.PublishedAt = a.parseDate(sel, i)
		}

		items = append(items, raw)
	})

	if len(items) == 0 {
		return nil, &FetchError{Source: a.desc.Label, Op: "extract", Err: errNoEntries}
	}

	return items, nil
}

// extractLink reads href from the link selector, or from the container
// itself when no selector is configured and the container is an anchor.
func (a *ScrapeAdapter) extractLink(sel *goquery.Selection) string {
	target := sel
	if a.desc.Rules.Link != "" {
		target = sel.Find(a.desc.Rules.Link).First()
	}

	href, ok := target.Attr("href")
	if !ok {
		href, _ = target.Find("a").First().Attr("href")
	}
	return strings.TrimSpace(href)
}

func (a *ScrapeAdapter) parseDate(sel *goquery.Selection, index int) time.Time {
	dateSel := sel.Find(a.desc.Rules.Date).First()

	text := strings.TrimSpace(dateSel.AttrOr("datetime", ""))
	if text == "" {
		text = strings.TrimSpace(dateSel.Text())
	}
	if text == "" {
		return time.Time{}
	}

	if a.desc.Rules.DateFormat != "" {
		if parsed, err := time.Parse(a.desc.Rules.DateFormat, text); err == nil {
			return parsed
		}
		slog.Debug("Date did not match configured format", "source", a.desc.Label, "index", index, "value", text)
		return time.Time{}
	}

	parsed, err := dateparse.ParseAny(text)
	if err != nil {
		slog.Debug("Unparseable entry date", "source", a.desc.Label, "index", index, "value", text)
		return time.Time{}
	}
	return parsed
}
