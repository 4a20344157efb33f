package model

import "testing"

func TestRunSummary_Degraded(t *testing.T) {
	tests := []struct {
		name string
		s    RunSummary
		want bool
	}{
		{"clean", RunSummary{Partitions: []PartitionReport{{Partition: "be", Fetched: 3}}}, false},
		{"failed partition", RunSummary{Partitions: []PartitionReport{{Partition: "de", Error: "HTTP 500"}}}, true},
		{"upload failure", RunSummary{Upload: &UploadResult{Succeeded: 2, Failed: 1}}, true},
		{"duplicates only", RunSummary{Upload: &UploadResult{Duplicates: 4}}, false},
		{"upload skipped", RunSummary{Upload: &UploadResult{Skipped: true}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Degraded(); got != tt.want {
				t.Errorf("Degraded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunSummary_FailedPartitions(t *testing.T) {
	s := RunSummary{Partitions: []PartitionReport{
		{Partition: "be", Fetched: 5},
		{Partition: "de", Error: "timeout"},
		{Partition: "fr", Error: "HTTP 401"},
	}}
	if got := s.FailedPartitions(); got != 2 {
		t.Errorf("FailedPartitions() = %d, want 2", got)
	}
}

func TestHTTPError_Error(t *testing.T) {
	e := &HTTPError{StatusCode: 503}
	if e.Error() != "HTTP 503" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"", 3, ""},
		{"héllo wörld", 7, "héllo w"},
		{"日本語テキスト", 3, "日本語"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
