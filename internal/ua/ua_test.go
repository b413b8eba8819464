package ua

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_DesktopChrome(t *testing.T) {
	raw := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/125.0.6422.60 Safari/537.36"

	info := Parse(raw, "en-GB,en;q=0.9")

	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, "Desktop", info.Device)
	assert.False(t, info.IsBot)
	assert.Equal(t, "en-gb", info.Lang)
	assert.Equal(t, raw, info.Raw)
}

func TestParse_Bot(t *testing.T) {
	info := Parse("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "")

	assert.True(t, info.IsBot)
	assert.Equal(t, "Bot", info.Device)
	assert.Empty(t, info.Lang)
}

func TestPrimaryLang(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"fr":                 "fr",
		"de-DE;q=0.8, en":    "de-de",
		" es-419 , en;q=0.5": "es-419",
	}
	for in, want := range cases {
		assert.Equal(t, want, primaryLang(in), "input %q", in)
	}
}
