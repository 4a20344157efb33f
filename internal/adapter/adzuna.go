package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/model"
)

// adzunaResponse is the top-level Adzuna search API response.
type adzunaResponse struct {
	Results []Listing `json:"results"`
}

// AdzunaAdapter fetches listings from the Adzuna search API, one country
// instance (partition) per call.
type AdzunaAdapter struct {
	baseURL        string
	appID          string
	appKey         string
	keywords       string
	resultsPerPage int
	opts           NormalizeOptions
	client         *http.Client
}

// NewAdzunaAdapter creates an adapter from the search settings.
func NewAdzunaAdapter(cfg config.SearchConfig, client *http.Client) *AdzunaAdapter {
	return &AdzunaAdapter{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		appID:          cfg.AppID,
		appKey:         cfg.AppKey,
		keywords:       cfg.Keywords,
		resultsPerPage: cfg.ResultsPerPage,
		opts: NormalizeOptions{
			DefaultLocation: cfg.DefaultLocation,
			StripHTML:       cfg.StripHTML,
		},
		client: client,
	}
}

// FetchPartition runs the first page of the search against one partition and
// normalizes the results into the unified JobPosting model.
func (a *AdzunaAdapter) FetchPartition(ctx context.Context, partition string) ([]model.JobPosting, error) {
	partition = strings.ToLower(strings.TrimSpace(partition))
	endpoint := fmt.Sprintf("%s/%s/search/1", a.baseURL, url.PathEscape(partition))

	q := url.Values{}
	q.Set("app_id", a.appID)
	q.Set("app_key", a.appKey)
	q.Set("results_per_page", strconv.Itoa(a.resultsPerPage))
	q.Set("what", a.keywords)
	q.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna search for %s: %w", partition, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries app_key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("adzuna search for %s: %w", partition, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       readSnippet(resp.Body),
			Err:        fmt.Errorf("adzuna search for %s: unexpected status %d", partition, resp.StatusCode),
		}
	}

	var ar adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("adzuna search for %s: %w", partition, err)
	}

	postings := make([]model.JobPosting, 0, len(ar.Results))
	for _, l := range ar.Results {
		postings = append(postings, Normalize(l, partition, a.opts))
	}

	return postings, nil
}
