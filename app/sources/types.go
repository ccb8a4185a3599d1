package sources

import (
	"fmt"

	"github.com/akardan/newsbrief/app/news"
)

type Kind string

const (
	KindFeed   Kind = "feed"
	KindScrape Kind = "scrape"
	KindAPI    Kind = "api"
)

// ScrapeRules is the declarative field-extraction descriptor for a scraped
// source: CSS selectors evaluated inside each container match. Title and
// Link are required; entries missing either are skipped.
type ScrapeRules struct {
	Container  string `yaml:"container"`
	Title      string `yaml:"title"`
	Link       string `yaml:"link"`
	Date       string `yaml:"date,omitempty"`
	DateFormat string `yaml:"date_format,omitempty"`
	Summary    string `yaml:"summary,omitempty"`
}

// Descriptor configures one source. Descriptors are loaded once at startup
// and never mutated; changing sources is a deployment-time action.
type Descriptor struct {
	Label          string       `yaml:"label"`
	URL            string       `yaml:"url"`
	Kind           Kind         `yaml:"kind"`
	Emit           news.Kind    `yaml:"emit,omitempty"`
	Rules          *ScrapeRules `yaml:"rules,omitempty"`
	ExtractSummary bool         `yaml:"extract_summary,omitempty"`
}

// FetchError covers everything that makes a single source contribute zero
// items: network failure, non-2xx response, unparseable payload, zero
// extracted entries. The caller degrades that source to an empty result and
// moves on to its siblings.
type FetchError struct {
	Source string
	Op     string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
