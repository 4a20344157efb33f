package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobfeed/internal/model"
)

var fixedNow = time.Date(2026, 3, 4, 9, 5, 7, 0, time.UTC)

func testWriter(t *testing.T, format string) *Writer {
	t.Helper()
	return &Writer{
		Dir:    t.TempDir(),
		Prefix: "jobs_luxembourg",
		Format: format,
		Now:    func() time.Time { return fixedNow },
	}
}

func samplePostings() []model.JobPosting {
	return []model.JobPosting{
		{
			Title: "Delivery Driver", Company: "Lux Logistics", Location: "Arlon",
			URL: "https://example.com/1", Source: "Adzuna (BE)",
			DatePosted: "2026-03-01T08:00:00Z", Description: "Drive, deliver, \"smile\"",
		},
		{
			Title: "Cook", Company: "N/A", Location: "Luxembourg",
			URL: "https://example.com/2", Source: "Adzuna (FR)",
			Description: "line one\nline two",
		},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "jobs_luxembourg_20260304_090507.csv", Filename("jobs_luxembourg", "csv", fixedNow))
	assert.Equal(t, "x_20261231_235959.json", Filename("x", "json", time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)))
}

func TestWrite_CSV(t *testing.T) {
	w := testWriter(t, FormatCSV)

	path, err := w.Write(samplePostings())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.Dir, "jobs_luxembourg_20260304_090507.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{
		"Delivery Driver", "Lux Logistics", "Arlon", "https://example.com/1",
		"Adzuna (BE)", "2026-03-01T08:00:00Z", "Drive, deliver, \"smile\"",
	}, rows[1])
	// Missing date_posted is filled with the export time.
	assert.Equal(t, "2026-03-04T09:05:07Z", rows[2][5])
	assert.Equal(t, "line one\nline two", rows[2][6])
}

func TestWrite_JSON(t *testing.T) {
	w := testWriter(t, FormatJSON)
	in := samplePostings()

	path, err := w.Write(in)
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var objs []map[string]string
	require.NoError(t, json.Unmarshal(data, &objs))
	require.Len(t, objs, 2)
	for _, col := range Columns {
		assert.Contains(t, objs[0], col)
	}
	assert.Equal(t, "2026-03-04T09:05:07Z", objs[1]["date_posted"])

	// The caller's slice keeps its empty date.
	assert.Empty(t, in[1].DatePosted)
}

func TestWrite_EmptyCSVHasHeaderOnly(t *testing.T) {
	w := testWriter(t, FormatCSV)

	path, err := w.Write(nil)
	require.NoError(t, err)

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWrite_UnwritableDirIsError(t *testing.T) {
	w := testWriter(t, FormatCSV)
	w.Dir = filepath.Join(w.Dir, "does", "not", "exist")

	_, err := w.Write(samplePostings())
	assert.Error(t, err)
}

func TestWrite_UnknownFormat(t *testing.T) {
	w := testWriter(t, "xml")
	_, err := w.Write(samplePostings())
	assert.Error(t, err)
}

func TestReadFile_RoundTrip(t *testing.T) {
	for _, format := range []string{FormatCSV, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			w := testWriter(t, format)
			path, err := w.Write(samplePostings())
			require.NoError(t, err)

			got, err := ReadFile(path)
			require.NoError(t, err)

			want := samplePostings()
			want[1].DatePosted = "2026-03-04T09:05:07Z"
			assert.Equal(t, want, got)
		})
	}
}

func TestReadFile_CSVByHeaderName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.csv")
	content := "url,title,extra\nhttps://x,Waiter,ignored\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://x", got[0].URL)
	assert.Equal(t, "Waiter", got[0].Title)
	assert.Empty(t, got[0].Company)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	noURL := filepath.Join(dir, "nourl.csv")
	require.NoError(t, os.WriteFile(noURL, []byte("title\nCook\n"), 0644))
	_, err := ReadFile(noURL)
	assert.Error(t, err)

	txt := filepath.Join(dir, "jobs.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	_, err = ReadFile(txt)
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
