package upload

import (
	"net/http"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Column limits of the jobs table.
const (
	MaxFieldRunes       = 255
	MaxDescriptionRunes = 1000
)

// Payload is the flat JSON body sent for one posting.
type Payload struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	DatePosted  string `json:"date_posted"`
	Description string `json:"description"`
}

// BuildPayload applies the column limits and fills a missing date_posted with now.
func BuildPayload(p model.JobPosting, now time.Time) Payload {
	date := p.DatePosted
	if date == "" {
		date = now.Format(time.RFC3339)
	}
	return Payload{
		Title:       model.Truncate(p.Title, MaxFieldRunes),
		Company:     model.Truncate(p.Company, MaxFieldRunes),
		Location:    model.Truncate(p.Location, MaxFieldRunes),
		URL:         p.URL,
		Source:      p.Source,
		DatePosted:  date,
		Description: model.Truncate(p.Description, MaxDescriptionRunes),
	}
}

// Outcome classifies the response to one upload request.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSucceeded
	OutcomeDuplicate
)

// Classify maps an HTTP status to an Outcome: 200/201/204 succeed, 409 means
// the row already exists, anything else is a failure.
func Classify(status int) Outcome {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return OutcomeSucceeded
	case http.StatusConflict:
		return OutcomeDuplicate
	default:
		return OutcomeFailed
	}
}

func (r *result) add(o Outcome) {
	switch o {
	case OutcomeSucceeded:
		r.Succeeded++
	case OutcomeDuplicate:
		r.Duplicates++
	default:
		r.Failed++
	}
}

type result model.UploadResult
