package geocode

import (
	"net/url"
	"strings"
)

// EmbedURL builds the embeddable satellite map URL for an address. Pure
// string construction: the map provider is only contacted by the browser
// rendering the frame.
func EmbedURL(apiKey, address string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(address), "+", "%20")
	return "https://www.google.com/maps/embed/v1/place?key=" + apiKey +
		"&q=" + escaped + "&zoom=11&maptype=satellite"
}
