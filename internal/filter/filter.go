package filter

import (
	"strings"

	"github.com/amishk599/jobfeed/internal/model"
)

// TitleAndLocationFilter matches postings whose title contains any include
// keyword and none of the exclude keywords, with the same rule applied to
// the location. Matching is case-insensitive. Empty include lists match all.
type TitleAndLocationFilter struct {
	titleKeywords    []string
	titleExcludes    []string
	locations        []string
	excludeLocations []string
}

// NewTitleAndLocationFilter returns a filter over titles and locations.
func NewTitleAndLocationFilter(titleKeywords, titleExcludes, locations, excludeLocations []string) *TitleAndLocationFilter {
	return &TitleAndLocationFilter{
		titleKeywords:    lowerAll(titleKeywords),
		titleExcludes:    lowerAll(titleExcludes),
		locations:        lowerAll(locations),
		excludeLocations: lowerAll(excludeLocations),
	}
}

// Match reports whether p passes both the title and the location rules.
func (f *TitleAndLocationFilter) Match(p model.JobPosting) bool {
	title := strings.ToLower(p.Title)
	location := strings.ToLower(p.Location)

	if len(f.titleKeywords) > 0 && !containsAny(title, f.titleKeywords) {
		return false
	}
	if containsAny(title, f.titleExcludes) {
		return false
	}
	if len(f.locations) > 0 && !containsAny(location, f.locations) {
		return false
	}
	if containsAny(location, f.excludeLocations) {
		return false
	}
	return true
}

// Empty reports whether the filter has no rules at all.
func (f *TitleAndLocationFilter) Empty() bool {
	return len(f.titleKeywords)+len(f.titleExcludes)+len(f.locations)+len(f.excludeLocations) == 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
