package wordpress

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestExcerpt(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"<p>Hello <b>world</b></p>", "Hello world..."},
		{"plain", "plain..."},
		{"<p>Broken <b", "Broken ..."},
	}
	for _, tt := range tests {
		if got := Excerpt(tt.input); got != tt.expected {
			t.Errorf("Excerpt(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExcerptTruncatesMidWord(t *testing.T) {
	long := strings.Repeat("abcdefg ", 40)
	got := Excerpt("<p>" + long + "</p>")
	if want := long[:150] + "..."; got != want {
		t.Errorf("Excerpt = %q, want %q", got, want)
	}
	if !strings.HasSuffix(got, " abcdef...") {
		t.Errorf("expected a mid-word cut, got tail %q", got[len(got)-8:])
	}
}

func TestExcerptCountsRunes(t *testing.T) {
	got := Excerpt(strings.Repeat("ы", 200))
	body := strings.TrimSuffix(got, "...")
	if n := utf8.RuneCountInString(body); n != 150 {
		t.Errorf("rune count = %d, want 150", n)
	}
	if !utf8.ValidString(got) {
		t.Error("excerpt is not valid UTF-8")
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1", 1},
		{" 42", 42},
		{"-3", -3},
		{"+7", 7},
		{"12abc", 12},
		{"abc", SortOrderUnset},
		{"", SortOrderUnset},
		{"-", SortOrderUnset},
		{"99999999999999", SortOrderUnset},
	}
	for _, tt := range tests {
		if got := ParseSortOrder(tt.input); got != tt.expected {
			t.Errorf("ParseSortOrder(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		zero  bool
	}{
		{"2024-01-05T10:00:00", false},
		{"2024-01-05T10:00:00Z", false},
		{"2024-01-05 10:00:00", false},
		{"2024-01-05", false},
		{"yesterday", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := ParseDate(tt.input); got.IsZero() != tt.zero {
			t.Errorf("ParseDate(%q).IsZero() = %v, want %v", tt.input, got.IsZero(), tt.zero)
		}
	}
	if !ParseDate("2024-02-01").After(ParseDate("2024-01-31T23:59:59")) {
		t.Error("expected later date to compare after")
	}
}

func TestStripTags(t *testing.T) {
	if got := StripTags(`<a href="x">link</a> &amp; more`); got != "link &amp; more" {
		t.Errorf("StripTags = %q", got)
	}
}

func TestMetaToleratesEmptyArray(t *testing.T) {
	var p wpPost
	raw := `{"slug":"x","title":{"rendered":"X"},"meta":[],"categories_name":false,"featured_media_url":123}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Meta.TechnologyLabel != "" || p.Meta.LessonSections != nil {
		t.Errorf("meta = %+v, want zero", p.Meta)
	}
	if p.CategoriesName != nil {
		t.Errorf("categories_name = %v, want nil", p.CategoriesName)
	}
	if p.FeaturedMediaURL != "123" {
		t.Errorf("featured_media_url = %q", p.FeaturedMediaURL)
	}

	var cat wpCategory
	if err := json.Unmarshal([]byte(`{"id":1,"meta":[]}`), &cat); err != nil {
		t.Fatalf("unmarshal category: %v", err)
	}
	if got := normalizeCategory(cat); got.SortOrder != SortOrderUnset || got.ImageURL != DefaultCategoryImage {
		t.Errorf("normalizeCategory = %+v", got)
	}
}

func TestLessonSummaryDefaults(t *testing.T) {
	c := NewClient("http://cms.test", withClock(func() time.Time {
		return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	}))
	s := c.lessonSummary(wpPost{Slug: "a", LessonCategory: []int{3, 4}})
	if s.CoverImage != DefaultCoverImage || s.TechnologyLabel != DefaultTechnologyLabel {
		t.Errorf("summary = %+v", s)
	}
	if s.CategoryID != 3 {
		t.Errorf("CategoryID = %d, want 3", s.CategoryID)
	}
	if s.Date != "2024-05-06T07:08:09.000Z" {
		t.Errorf("Date = %q", s.Date)
	}
	if s.Excerpt != "" {
		t.Errorf("Excerpt = %q, want empty", s.Excerpt)
	}
}
