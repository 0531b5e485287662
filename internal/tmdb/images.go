package tmdb

import (
	"fmt"
	"strings"
	"time"
)

// ImageBaseURL is the TMDB CDN root for all artwork sizes.
const ImageBaseURL = "https://image.tmdb.org/t/p"

// Recognised size presets per artwork kind.
const (
	PosterSizeDefault   = "w500"
	BackdropSizeDefault = "w1280"
	ProfileSizeDefault  = "w185"
)

// ImageURL joins a TMDB artwork path with a size preset.
// Empty paths yield "" so templates can skip the <img>.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = PosterSizeDefault
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ImageBaseURL + "/" + size + path
}

func PosterURL(path string) string   { return ImageURL(path, PosterSizeDefault) }
func BackdropURL(path string) string { return ImageURL(path, BackdropSizeDefault) }
func ProfileURL(path string) string  { return ImageURL(path, ProfileSizeDefault) }

// FormatRuntime renders minutes as "2h 16m" (or "45m" under an hour).
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatRating renders a vote average with one decimal, e.g. "7.8".
func FormatRating(rating float64) string {
	return fmt.Sprintf("%.1f", rating)
}

// ReleaseYear extracts the year from a TMDB release date ("2006-10-20").
// Zero when the date is absent or malformed.
func ReleaseYear(releaseDate string) int {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(releaseDate))
	if err != nil {
		return 0
	}
	return t.Year()
}
