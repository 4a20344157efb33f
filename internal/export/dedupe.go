package export

import "github.com/amishk599/jobfeed/internal/model"

// Dedupe drops postings whose URL was already seen earlier in the slice.
// The first occurrence wins and relative order is preserved.
func Dedupe(postings []model.JobPosting) []model.JobPosting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if _, dup := seen[p.URL]; dup {
			continue
		}
		seen[p.URL] = struct{}{}
		out = append(out, p)
	}
	return out
}
