// Package content holds the static copy the landing page renders: services,
// portfolio entries and legal notices.
package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

var ErrUnknownNotice = errors.New("unknown legal notice")

type Service struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

type PortfolioItem struct {
	ID       int    `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Category string `yaml:"category" json:"category"`
	ImageURL string `yaml:"imageURL" json:"image_url"`
}

type LegalNotice struct {
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
}

type Site struct {
	ContactEmail     string                 `yaml:"contactEmail" json:"contact_email"`
	FallbackImageURL string                 `yaml:"fallbackImageURL" json:"fallback_image_url"`
	Services         []Service              `yaml:"services" json:"services"`
	Portfolio        []PortfolioItem        `yaml:"portfolio" json:"portfolio"`
	Legal            map[string]LegalNotice `yaml:"legal" json:"-"`
}

// Load parses the embedded site copy.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if err := site.validate(); err != nil {
		return nil, err
	}

	// Missing artwork falls back to the placeholder the page shows on image errors.
	for i := range site.Portfolio {
		if site.Portfolio[i].ImageURL == "" {
			site.Portfolio[i].ImageURL = site.FallbackImageURL
		}
	}
	return &site, nil
}

func (s *Site) validate() error {
	if s.FallbackImageURL == "" {
		return errors.New("site content: fallbackImageURL is required")
	}
	seen := make(map[int]bool, len(s.Portfolio))
	for _, item := range s.Portfolio {
		if item.Title == "" {
			return fmt.Errorf("site content: portfolio item %d has no title", item.ID)
		}
		if seen[item.ID] {
			return fmt.Errorf("site content: duplicate portfolio id %d", item.ID)
		}
		seen[item.ID] = true
	}
	for kind, notice := range s.Legal {
		if notice.Title == "" || notice.Content == "" {
			return fmt.Errorf("site content: legal notice %q is incomplete", kind)
		}
	}
	return nil
}

// Notice returns the legal notice for kind (privacy, terms, cookies).
func (s *Site) Notice(kind string) (LegalNotice, error) {
	notice, ok := s.Legal[kind]
	if !ok {
		return LegalNotice{}, fmt.Errorf("%w: %s", ErrUnknownNotice, kind)
	}
	return notice, nil
}
