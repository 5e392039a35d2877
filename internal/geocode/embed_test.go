package geocode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smokespecialist/smokespecialist/internal/geocode"
)

func TestEmbedURL(t *testing.T) {
	got := geocode.EmbedURL("test-key", "123 Main St, Springfield")

	assert.Equal(t,
		"https://www.google.com/maps/embed/v1/place?key=test-key&q=123%20Main%20St%2C%20Springfield&zoom=11&maptype=satellite",
		got)
}

func TestEmbedURL_SpacesNotPlusEncoded(t *testing.T) {
	got := geocode.EmbedURL("k", "a b")

	assert.NotContains(t, got, "+")
	assert.Contains(t, got, "q=a%20b")
}
