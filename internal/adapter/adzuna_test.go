package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/model"
)

func testSearchConfig(baseURL string) config.SearchConfig {
	return config.SearchConfig{
		BaseURL:         baseURL,
		AppID:           "test-id",
		AppKey:          "test-key",
		Keywords:        "Driver, Hotel",
		ResultsPerPage:  5,
		DefaultLocation: "Luxembourg",
	}
}

func TestFetchPartition_Success(t *testing.T) {
	payload := `{
		"count": 2,
		"results": [
			{
				"title": "Delivery Driver",
				"company": {"display_name": "Lux Logistics"},
				"location": {"display_name": "Arlon, Luxembourg Province"},
				"redirect_url": "https://www.adzuna.be/land/ad/1",
				"created": "2026-03-01T08:00:00Z",
				"description": "Drive things around."
			},
			{
				"title": "Hotel Receptionist",
				"redirect_url": "https://www.adzuna.be/land/ad/2"
			}
		]
	}`
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewAdzunaAdapter(testSearchConfig(srv.URL+"/v1/api/jobs"), srv.Client())

	jobs, err := a.FetchPartition(context.Background(), "BE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/api/jobs/be/search/1" {
		t.Errorf("path = %q", gotPath)
	}
	wantQuery := map[string]string{
		"app_id":           "test-id",
		"app_key":          "test-key",
		"results_per_page": "5",
		"what":             "Driver, Hotel",
		"content-type":     "application/json",
	}
	for k, v := range wantQuery {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Delivery Driver" || j.Company != "Lux Logistics" {
		t.Errorf("unexpected job: %+v", j)
	}
	if j.Location != "Arlon, Luxembourg Province" {
		t.Errorf("expected location Arlon, got %s", j.Location)
	}
	if j.Source != "Adzuna (BE)" {
		t.Errorf("expected source Adzuna (BE), got %s", j.Source)
	}
	if j.DatePosted != "2026-03-01T08:00:00Z" {
		t.Errorf("expected date posted, got %q", j.DatePosted)
	}

	// Second job has no company/location/created.
	j = jobs[1]
	if j.Company != "N/A" {
		t.Errorf("expected placeholder company, got %q", j.Company)
	}
	if j.Location != "Luxembourg" {
		t.Errorf("expected default location, got %q", j.Location)
	}
	if j.DatePosted != "" {
		t.Errorf("expected empty date posted, got %q", j.DatePosted)
	}
}

func TestFetchPartition_NoResultsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 0}`))
	}))
	defer srv.Close()

	a := NewAdzunaAdapter(testSearchConfig(srv.URL), srv.Client())

	jobs, err := a.FetchPartition(context.Background(), "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}

func TestFetchPartition_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	a := NewAdzunaAdapter(testSearchConfig(srv.URL), srv.Client())

	_, err := a.FetchPartition(context.Background(), "de")
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestFetchPartition_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"exception":"AUTH_FAIL","display":"Authorisation failed"}`))
	}))
	defer srv.Close()

	a := NewAdzunaAdapter(testSearchConfig(srv.URL), srv.Client())

	_, err := a.FetchPartition(context.Background(), "be")
	if err == nil {
		t.Fatal("expected error for HTTP 401, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %T", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "AUTH_FAIL") {
		t.Errorf("Body = %q, want snippet of response", httpErr.Body)
	}
}

func TestFetchPartition_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 20 * time.Millisecond}
	a := NewAdzunaAdapter(testSearchConfig(srv.URL), client)

	_, err := a.FetchPartition(context.Background(), "be")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Errorf("error leaks app_key: %v", err)
	}
}
