package deeplinks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetaDetailsWithoutVideo(t *testing.T) {
	got := MetaDetails("series", "tt0944947", nil)
	assert.Equal(t, "stremio:///detail/series/tt0944947", got)
}

func TestMetaDetailsWithVideo(t *testing.T) {
	vid := "tt0944947:1:1"
	got := MetaDetails("series", "tt0944947", &vid)
	assert.Equal(t, "stremio:///detail/series/tt0944947/tt0944947%3A1%3A1", got)
}

func TestLibraryUnscoped(t *testing.T) {
	assert.Equal(t, "stremio:///library", Library(""))
}

func TestLibraryScoped(t *testing.T) {
	assert.Equal(t, "stremio:///library/movie", Library("movie"))
}

func TestDiscoverWithExtra(t *testing.T) {
	got := Discover("https://example.com/manifest.json", "movie", "top", map[string]string{"genre": "Action"})
	assert.Equal(t, "stremio:///discover/https%3A%2F%2Fexample.com%2Fmanifest.json/movie/top?genre=Action", got)
}

func TestSearchHistoryEncodesSpaces(t *testing.T) {
	got := SearchHistory("star wars")
	assert.Equal(t, "stremio:///search?search=star%20wars", got)
}

func TestCalendar(t *testing.T) {
	assert.Equal(t, "stremio:///calendar", Calendar())
}
