// Package deeplinks renders stremio:///... navigable URIs from state.
// Every function here is pure: given the same inputs it always produces
// the same URI, with no I/O and no dependency on the runtime.
package deeplinks

import (
	"fmt"
	"net/url"
	"strings"
)

// extraReserved mirrors the reference implementation's
// URI_COMPONENT_ENCODE_SET: RFC 3986 percent-encoding plus a few
// additional reserved characters the reference keeps escaped in query
// components. net/url's QueryEscape already escapes all of them, so
// encodeComponent's pass over this set is a safeguard.
var extraReserved = map[byte]bool{
	'!': true, '*': true, '\'': true, '(': true, ')': true,
}

// encodeComponent percent-encodes s for use as a single path or query
// component, matching the reference implementation's encode set.
func encodeComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	var b strings.Builder
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if extraReserved[c] {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Discover builds the discover-catalog deep link.
func Discover(addonTransportURL, catalogType, catalogID string, extra map[string]string) string {
	path := fmt.Sprintf("stremio:///discover/%s/%s/%s",
		encodeComponent(addonTransportURL), encodeComponent(catalogType), encodeComponent(catalogID))
	return appendExtra(path, extra)
}

// Library builds the library deep link, optionally scoped to a type.
func Library(catalogType string) string {
	if catalogType == "" {
		return "stremio:///library"
	}
	return fmt.Sprintf("stremio:///library/%s", encodeComponent(catalogType))
}

// MetaDetails builds the meta-details deep link, optionally scoped to a
// specific video within a series-like meta item.
func MetaDetails(metaType, metaID string, videoID *string) string {
	if videoID == nil {
		return fmt.Sprintf("stremio:///detail/%s/%s", encodeComponent(metaType), encodeComponent(metaID))
	}
	return fmt.Sprintf("stremio:///detail/%s/%s/%s", encodeComponent(metaType), encodeComponent(metaID), encodeComponent(*videoID))
}

// Player builds the player deep link for a specific stream on a meta
// item/video.
func Player(streamTransportURL, streamRef, metaType, metaID string, videoID *string) string {
	vid := ""
	if videoID != nil {
		vid = *videoID
	}
	return fmt.Sprintf("stremio:///player/%s/%s/%s/%s/%s",
		encodeComponent(streamTransportURL), encodeComponent(streamRef),
		encodeComponent(metaType), encodeComponent(metaID), encodeComponent(vid))
}

// Addons builds the addon-catalog-browsing deep link, optionally scoped
// to one addon catalog type.
func Addons(catalogType string) string {
	if catalogType == "" {
		return "stremio:///addons"
	}
	return fmt.Sprintf("stremio:///addons/%s", encodeComponent(catalogType))
}

// SearchHistory builds the deep link that re-runs a past search query.
func SearchHistory(query string) string {
	return fmt.Sprintf("stremio:///search?search=%s", encodeComponent(query))
}

// Calendar builds the calendar (upcoming episodes) deep link.
func Calendar() string { return "stremio:///calendar" }

// ExternalPlayer builds a deep link handing a stream off to an external
// player rather than the in-app one.
func ExternalPlayer(streamURL string) string {
	return fmt.Sprintf("stremio:///externalPlayer?stream=%s", encodeComponent(streamURL))
}

// appendExtra renders a map of extra query params in sorted-key order
// (map iteration is not ordering-stable, and deep links must be
// deterministic for the same logical input).
func appendExtra(path string, extra map[string]string) string {
	if len(extra) == 0 {
		return path
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sortStrings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", encodeComponent(k), encodeComponent(extra[k])))
	}
	return path + "?" + strings.Join(parts, "&")
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
