package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amishk599/jobfeed/internal/model"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// timestampLayout renders as YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// Columns is the CSV header and the JSON key set, in order.
var Columns = []string{"title", "company", "location", "url", "source", "date_posted", "description"}

// Writer writes one export file per call to Write.
type Writer struct {
	Dir    string
	Prefix string
	Format string
	Now    func() time.Time // defaults to time.Now
}

// NewWriter returns a Writer using the wall clock.
func NewWriter(dir, prefix, format string) *Writer {
	return &Writer{Dir: dir, Prefix: prefix, Format: format, Now: time.Now}
}

// Filename returns <prefix>_<YYYYMMDD_HHMMSS>.<ext> for the given time.
func Filename(prefix, format string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format(timestampLayout), format)
}

// Write serializes postings to a new timestamped file and returns its path.
// Postings without a date_posted get the write time instead.
func (w *Writer) Write(postings []model.JobPosting) (string, error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	t := now()

	if w.Format != FormatCSV && w.Format != FormatJSON {
		return "", fmt.Errorf("export: unsupported format %q", w.Format)
	}

	path := filepath.Join(w.Dir, Filename(w.Prefix, w.Format, t))
	rows := withDates(postings, t.Format(time.RFC3339))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	if w.Format == FormatJSON {
		err = writeJSON(bw, rows)
	} else {
		err = writeCSV(bw, rows)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// withDates returns a copy of postings with empty DatePosted set to stamp.
func withDates(postings []model.JobPosting, stamp string) []model.JobPosting {
	out := make([]model.JobPosting, len(postings))
	copy(out, postings)
	for i := range out {
		if out[i].DatePosted == "" {
			out[i].DatePosted = stamp
		}
	}
	return out
}

func writeCSV(w *bufio.Writer, postings []model.JobPosting) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, p := range postings {
		if err := cw.Write(record(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w *bufio.Writer, postings []model.JobPosting) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(postings)
}

func record(p model.JobPosting) []string {
	return []string{p.Title, p.Company, p.Location, p.URL, p.Source, p.DatePosted, p.Description}
}
