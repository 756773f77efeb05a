package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Study Room 2  ",
			want:  "Study Room 2",
		},
		{
			name:  "multiple spaces between words",
			input: "Study    Room",
			want:  "Study Room",
		},
		{
			name:  "tabs and newlines",
			input: "Study\t\nRoom",
			want:  "Study Room",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Lab™ ",
			want:  "Café & Lab™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCourseCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase code",
			input: "cs301",
			want:  "CS301",
		},
		{
			name:  "surrounding whitespace",
			input: "  cs301 ",
			want:  "CS301",
		},
		{
			name:  "already canonical",
			input: "MATH101",
			want:  "MATH101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCourseCode(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeCourseCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	got := NormalizeEmail(" Dana.Levi@Campus.EDU ")
	if got != "dana.levi@campus.edu" {
		t.Errorf("NormalizeEmail = %q, want %q", got, "dana.levi@campus.edu")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain file",
			input: "notes.pdf",
			want:  "notes.pdf",
		},
		{
			name:  "path traversal stripped",
			input: "../../etc/passwd",
			want:  "passwd",
		},
		{
			name:  "unsafe characters replaced",
			input: "lecture 3 (final)!.pdf",
			want:  "lecture_3_final_.pdf",
		},
		{
			name:  "underscore runs collapsed",
			input: "a   b___c.txt",
			want:  "a_b_c.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlice_DropsEmptiesAndDuplicates(t *testing.T) {
	got := SanitizeSlice([]string{" a ", "", "A", "b", "a"}, trimAndLower)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeSlice = %v, want %v", got, want)
	}
}
