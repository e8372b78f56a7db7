package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildMovieFilters(f *testing.F) {
	seeds := []string{
		"platform=3&active=true&search=matrix",
		"platform=abc",
		"cursor=eyJpZCI6NywiZGlyIjoibmV4dCJ9",
		"cursor=garbage",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		_, _ = buildMovieFilters(values)
	})
}
