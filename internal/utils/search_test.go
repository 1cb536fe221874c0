package utils

import "testing"

func TestSanitizeSearchText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips punctuation and whitespace", "Exam Notice!! ", "ExamNotice"},
		{"keeps digits", "Sem 5 results", "Sem5results"},
		{"empty input", "", ""},
		{"only punctuation", "!!!???", ""},
		{"strips non-ascii", "Notice – 2026", "Notice2026"},
		{"already clean", "Placement", "Placement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeSearchText(tt.input); got != tt.want {
				t.Fatalf("SanitizeSearchText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{"zero records still has one page", 0, 10, 1},
		{"less than one page", 3, 10, 1},
		{"exactly one page", 10, 10, 1},
		{"one more than a page", 11, 10, 2},
		{"several pages", 95, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.total, tt.pageSize); got != tt.want {
				t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
			}
		})
	}
}
