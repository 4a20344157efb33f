package adapter

import (
	"fmt"
	"strings"

	"github.com/amishk599/jobfeed/internal/model"
)

// Placeholders used when an upstream field is missing.
const (
	PlaceholderText = "N/A"
	PlaceholderURL  = "#"
)

// MaxDescriptionRunes is the description length kept at fetch time.
const MaxDescriptionRunes = 500

// Listing is one record from the Adzuna search response. Every field is a
// pointer so that absent keys and explicit nulls are both representable.
type Listing struct {
	Title       *string       `json:"title"`
	Company     *DisplayField `json:"company"`
	Location    *DisplayField `json:"location"`
	RedirectURL *string       `json:"redirect_url"`
	Created     *string       `json:"created"`
	Description *string       `json:"description"`
}

// DisplayField is the nested {"display_name": ...} object Adzuna uses for
// company and location.
type DisplayField struct {
	DisplayName *string `json:"display_name"`
}

// NormalizeOptions tune Normalize.
type NormalizeOptions struct {
	// DefaultLocation replaces a missing location. Empty means the
	// upper-cased partition code is used instead.
	DefaultLocation string
	// StripHTML converts HTML fragments in descriptions to plain text.
	StripHTML bool
}

// Normalize maps one upstream listing to a JobPosting. It never fails:
// missing fields at any depth fall back to placeholders.
func Normalize(l Listing, partition string, opts NormalizeOptions) model.JobPosting {
	code := strings.ToUpper(partition)

	location := opts.DefaultLocation
	if location == "" {
		location = code
	}

	desc := str(l.Description)
	if opts.StripHTML && desc != "" {
		desc = extractText(desc)
	}

	return model.JobPosting{
		Title:       orPlaceholder(str(l.Title), PlaceholderText),
		Company:     orPlaceholder(display(l.Company), PlaceholderText),
		Location:    orPlaceholder(display(l.Location), location),
		URL:         orPlaceholder(str(l.RedirectURL), PlaceholderURL),
		Source:      SourceLabel(partition),
		DatePosted:  strings.TrimSpace(str(l.Created)),
		Description: model.Truncate(desc, MaxDescriptionRunes),
	}
}

// SourceLabel is the human-readable source tag for a partition, e.g. "Adzuna (BE)".
func SourceLabel(partition string) string {
	return fmt.Sprintf("Adzuna (%s)", strings.ToUpper(partition))
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func display(f *DisplayField) string {
	if f == nil {
		return ""
	}
	return str(f.DisplayName)
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
