package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amishk599/jobfeed/internal/model"
)

// ReadFile loads postings from a CSV or JSON export, chosen by extension.
func ReadFile(path string) ([]model.JobPosting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var postings []model.JobPosting
		if err := json.NewDecoder(f).Decode(&postings); err != nil {
			return nil, fmt.Errorf("read export %s: %w", path, err)
		}
		return postings, nil
	case ".csv":
		postings, err := readCSV(f)
		if err != nil {
			return nil, fmt.Errorf("read export %s: %w", path, err)
		}
		return postings, nil
	default:
		return nil, fmt.Errorf("read export %s: unknown extension (want .csv or .json)", path)
	}
}

// readCSV maps columns by header name so files with reordered or extra
// columns still load.
func readCSV(r io.Reader) ([]model.JobPosting, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["url"]; !ok {
		return nil, errors.New("missing url column")
	}

	var postings []model.JobPosting
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		postings = append(postings, model.JobPosting{
			Title:       get("title"),
			Company:     get("company"),
			Location:    get("location"),
			URL:         get("url"),
			Source:      get("source"),
			DatePosted:  get("date_posted"),
			Description: get("description"),
		})
	}
	return postings, nil
}
