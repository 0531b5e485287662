package tmdb

import "testing"

func TestImageURL(t *testing.T) {
	if got := ImageURL("/abc.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("ImageURL = %q", got)
	}
	if got := ImageURL("abc.jpg", ""); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("missing slash/size not normalized: %q", got)
	}
	if got := ImageURL("", "w500"); got != "" {
		t.Fatalf("empty path should yield empty URL, got %q", got)
	}
	if got := BackdropURL("/bg.jpg"); got != "https://image.tmdb.org/t/p/w1280/bg.jpg" {
		t.Fatalf("BackdropURL = %q", got)
	}
	if got := ProfileURL("/face.jpg"); got != "https://image.tmdb.org/t/p/w185/face.jpg" {
		t.Fatalf("ProfileURL = %q", got)
	}
}

func TestFormatRuntime(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{136, "2h 16m"},
		{45, "45m"},
		{60, "1h 0m"},
		{0, ""},
		{-5, ""},
	}
	for _, tc := range cases {
		if got := FormatRuntime(tc.minutes); got != tc.want {
			t.Fatalf("FormatRuntime(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestFormatRating(t *testing.T) {
	if got := FormatRating(7.849); got != "7.8" {
		t.Fatalf("FormatRating = %q", got)
	}
	if got := FormatRating(0); got != "0.0" {
		t.Fatalf("FormatRating(0) = %q", got)
	}
}

func TestReleaseYear(t *testing.T) {
	if got := ReleaseYear("1999-10-15"); got != 1999 {
		t.Fatalf("ReleaseYear = %d", got)
	}
	if got := ReleaseYear(""); got != 0 {
		t.Fatalf("empty date = %d", got)
	}
	if got := ReleaseYear("not-a-date"); got != 0 {
		t.Fatalf("malformed date = %d", got)
	}
}
