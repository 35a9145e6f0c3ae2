package service

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSeoSummaryStripsMarkupAndCollapsesWhitespace(t *testing.T) {
	got := seoSummary("<p>Warm <strong>wool</strong> socks.</p>\n<ul><li>3-pack</li></ul>")
	if got != "Warm wool socks. 3-pack" {
		t.Fatalf("seoSummary = %q", got)
	}
}

func TestSeoSummaryShortTextIsUntouched(t *testing.T) {
	if got := seoSummary("Short and sweet."); got != "Short and sweet." {
		t.Fatalf("seoSummary = %q", got)
	}
}

func TestSeoSummaryTruncatesOnRuneBoundary(t *testing.T) {
	// 200 two-byte runes: a byte-indexed cut at 157 would land mid-rune
	long := strings.Repeat("é", 200)
	got := seoSummary(long)

	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long summary not marked truncated: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 160 {
		t.Fatalf("summary is %d runes, want at most 160", n)
	}
}
