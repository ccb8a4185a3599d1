package sources

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akardan/newsbrief/app/news"
)

type registryFile struct {
	Sources      []Descriptor      `yaml:"sources"`
	Vocabularies []news.Vocabulary `yaml:"vocabularies,omitempty"`
}

// Registry holds the source descriptors and tag vocabularies loaded from
// the sources file. Contents are immutable for the process lifetime.
type Registry struct {
	path         string
	sources      []Descriptor
	vocabularies []news.Vocabulary
}

func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) Run() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return fmt.Errorf("sources file %s declares no sources", r.path)
	}

	for i := range file.Sources {
		if err := validateDescriptor(&file.Sources[i]); err != nil {
			return fmt.Errorf("invalid source at index %d: %w", i, err)
		}
	}

	r.sources = file.Sources
	r.vocabularies = file.Vocabularies

	for _, desc := range r.sources {
		slog.Debug("Source configuration loaded", "label", desc.Label, "kind", desc.Kind, "url", desc.URL)
	}

	return nil
}

func (r *Registry) Sources() []Descriptor {
	out := make([]Descriptor, len(r.sources))
	copy(out, r.sources)
	return out
}

func (r *Registry) Vocabularies() []news.Vocabulary {
	return r.vocabularies
}

func (r *Registry) Count() int {
	return len(r.sources)
}

func validateDescriptor(desc *Descriptor) error {
	if desc.Label == "" {
		return fmt.Errorf("source label is required")
	}
	if desc.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	switch desc.Kind {
	case KindFeed:
	case KindAPI:
		if desc.Emit == "" {
			desc.Emit = news.KindText
		}
		if desc.Emit != news.KindText && desc.Emit != news.KindVideo {
			return fmt.Errorf("invalid emit kind: %s", desc.Emit)
		}
	case KindScrape:
		if desc.Rules == nil {
			return fmt.Errorf("scrape source requires extraction rules")
		}
		if desc.Rules.Container == "" || desc.Rules.Title == "" {
			return fmt.Errorf("scrape rules require container and title selectors")
		}
	default:
		return fmt.Errorf("invalid source kind: %s", desc.Kind)
	}

	return nil
}
