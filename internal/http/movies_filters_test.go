package httpserver

import (
	"net/url"
	"testing"

	"watchlist/internal/repository"
)

func TestBuildMovieFilters(t *testing.T) {
	values, _ := url.ParseQuery("platform=3&active=true&search= matrix ")

	filters, err := buildMovieFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.PlatformID == nil || *filters.PlatformID != 3 {
		t.Fatalf("platform parse failed: %+v", filters.PlatformID)
	}
	if filters.Active == nil || !*filters.Active {
		t.Fatalf("active parse failed: %+v", filters.Active)
	}
	if filters.Search == nil || *filters.Search != "matrix" {
		t.Fatalf("search not trimmed: %+v", filters.Search)
	}
	if filters.Cursor != nil {
		t.Fatalf("unexpected cursor: %+v", filters.Cursor)
	}
}

func TestBuildMovieFilters_Invalid(t *testing.T) {
	cases := []string{
		"platform=abc",
		"platform=0",
		"platform=-4",
		"active=maybe",
		"cursor=!!!",
		"cursor=bm90LWpzb24=",
	}
	for _, raw := range cases {
		values, _ := url.ParseQuery(raw)
		if _, err := buildMovieFilters(values); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestBuildMovieFilters_Cursor(t *testing.T) {
	// A well-formed opaque token decodes into the boundary anchor.
	roundtrip, err := repository.DecodeCursor("eyJpZCI6NywiZGlyIjoibmV4dCJ9") // {"id":7,"dir":"next"}
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	values := url.Values{"cursor": []string{"eyJpZCI6NywiZGlyIjoibmV4dCJ9"}}
	filters, err := buildMovieFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Cursor == nil || filters.Cursor.ID != roundtrip.ID || filters.Cursor.Dir != roundtrip.Dir {
		t.Fatalf("cursor mismatch: %+v", filters.Cursor)
	}
}
