package pathname

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Example Title", "Example_Title"},
		{"  Arms\tcontrol \n 2024 ", "Arms_control_2024"},
		{"SIPRI/UNODA: report?", "SIPRI_UNODA__report_"},
		{"../../etc/passwd", "___etc_passwd"},
		{"", "untitled"},
		{"...", "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Title(tt.in); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://host/doc.pdf", "doc.pdf"},
		{"https://host/files/report%20final.pdf?download=1", "report_final.pdf"},
		{"https://host/", "document"},
		{"https://host", "document"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Filename(tt.in); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	if got := Segment("Arms control/disarmament"); got != "Arms control_disarmament" {
		t.Errorf("unexpected segment %q", got)
	}
	if got := Segment("Topic"); got != "Topic" {
		t.Errorf("unexpected segment %q", got)
	}
	if got := Segment("  "); got != "_" {
		t.Errorf("unexpected segment %q", got)
	}
}

func TestSanitized_LengthAndSeparators(t *testing.T) {
	inputs := []string{
		strings.Repeat("a", 400),
		strings.Repeat("é", 300),
		strings.Repeat("x/", 200),
		"file:with:colons",
		"back\\slash",
	}

	for _, in := range inputs {
		for _, out := range []string{Title(in), Filename("https://host/" + in), Segment(in)} {
			if len(out) > MaxLength {
				t.Errorf("sanitized length %d exceeds %d", len(out), MaxLength)
			}
			if strings.ContainsAny(out, `/\`) {
				t.Errorf("sanitized value contains a path separator: %q", out)
			}
			if !utf8.ValidString(out) {
				t.Errorf("sanitized value is not valid UTF-8: %q", out)
			}
		}
	}
}

func BenchmarkTitle(b *testing.B) {
	input := "Stockholm International Peace Research Institute: yearbook summary / 2024"
	for i := 0; i < b.N; i++ {
		Title(input)
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("doc.pdf", 2); got != "doc_2.pdf" {
		t.Errorf("WithSuffix = %q", got)
	}
	if got := WithSuffix("document", 3); got != "document_3" {
		t.Errorf("WithSuffix = %q", got)
	}

	long := strings.Repeat("a", MaxLength-4) + ".pdf"
	got := WithSuffix(long, 12)
	if len(got) > MaxLength {
		t.Errorf("suffixed length %d exceeds %d", len(got), MaxLength)
	}
	if !strings.HasSuffix(got, "_12.pdf") {
		t.Errorf("extension not kept: %q", got[len(got)-10:])
	}
}
