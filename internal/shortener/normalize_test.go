package shortener_test

import (
	"strings"
	"testing"

	"github.com/serroba/linkshare/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase host keeps path case",
			input:    "https://Example.com/Path",
			expected: "https://example.com/Path",
		},
		{
			name:     "lowercase scheme",
			input:    "HTTPS://example.com/path",
			expected: "https://example.com/path",
		},
		{
			name:     "keep trailing slash",
			input:    "https://example.com/path/",
			expected: "https://example.com/path/",
		},
		{
			name:     "empty path becomes root",
			input:    "https://a.com",
			expected: "https://a.com/",
		},
		{
			name:     "remove default https port",
			input:    "https://example.com:443/path",
			expected: "https://example.com/path",
		},
		{
			name:     "remove default http port",
			input:    "http://example.com:80/path",
			expected: "http://example.com/path",
		},
		{
			name:     "keep non-default port",
			input:    "https://example.com:8080/path",
			expected: "https://example.com:8080/path",
		},
		{
			name:     "remove fragment",
			input:    "https://example.com/path#section",
			expected: "https://example.com/path",
		},
		{
			name:     "keep client-side route fragment",
			input:    "https://example.com/#/inbox",
			expected: "https://example.com/#/inbox",
		},
		{
			name:     "preserve query string",
			input:    "https://example.com/path?foo=bar",
			expected: "https://example.com/path?foo=bar",
		},
		{
			name:     "drop bare question mark",
			input:    "https://example.com/path?",
			expected: "https://example.com/path",
		},
		{
			name:     "uppercase percent escapes",
			input:    "https://example.com/a%2fb?q=%c3%a9",
			expected: "https://example.com/a%2Fb?q=%C3%A9",
		},
		{
			name:     "decode unreserved escapes",
			input:    "https://example.com/%7euser/%41",
			expected: "https://example.com/~user/A",
		},
		{
			name:     "escape space in query",
			input:    "https://a.com/?q=a b",
			expected: "https://a.com/?q=a%20b",
		},
		{
			name:     "escape quotes and angle brackets in query",
			input:    `https://a.com/?q="x y"<b>`,
			expected: "https://a.com/?q=%22x%20y%22%3Cb%3E",
		},
		{
			name:     "escape non-ascii bytes in query",
			input:    "https://a.com/?q=é",
			expected: "https://a.com/?q=%C3%A9",
		},
		{
			name:     "keep query delimiters raw",
			input:    "https://a.com/?a=1&b=x:y@z/w?v,+;$!*'()",
			expected: "https://a.com/?a=1&b=x:y@z/w?v,+;$!*'()",
		},
		{
			name:     "trim surrounding whitespace",
			input:    "  https://example.com/x  ",
			expected: "https://example.com/x",
		},
		{
			name:     "complex url normalization",
			input:    "HTTPS://EXAMPLE.COM:443/path/?foo=bar#section",
			expected: "https://example.com/path/?foo=bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := shortener.NormalizeURL(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeURL_Rejects(t *testing.T) {
	inputs := map[string]string{
		"empty":                  "",
		"blank":                  "   ",
		"not a url":              "not a url",
		"missing scheme":         "example.com/path",
		"ftp scheme":             "ftp://example.com/file",
		"javascript":             "javascript:alert(1)",
		"missing host":           "https:///path",
		"opaque":                 "https:example.com",
		"bad host":               "http://exa mple.com",
		"broken parse":           "://invalid",
		"too long":               "https://example.com/" + strings.Repeat("a", shortener.MaxURLLength),
		"bad query escape":       "https://a.com/?q=%zz",
		"truncated query escape": "https://a.com/?q=%4",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := shortener.NormalizeURL(input)

			assert.ErrorIs(t, err, shortener.ErrInvalidURL)
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://EXAMPLE.COM:443/path/?foo=bar#section",
		"https://example.com/%7euser/a%2fb",
		"http://a.com",
		`https://a.com/?q="x y"<b>&r=%c3%a9`,
	}

	for _, input := range inputs {
		once, err := shortener.NormalizeURL(input)
		require.NoError(t, err)

		twice, err := shortener.NormalizeURL(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "normalizing %q twice", input)
	}
}

func TestNormalizeURL_EquivalentQuerySpellings(t *testing.T) {
	raw, err := shortener.NormalizeURL("https://a.com/?q=a b")
	require.NoError(t, err)

	escaped, err := shortener.NormalizeURL("https://a.com/?q=a%20b")
	require.NoError(t, err)

	assert.Equal(t, escaped, raw)
	assert.Equal(t, shortener.HashURL(escaped), shortener.HashURL(raw))
}

func TestHashURL(t *testing.T) {
	t.Run("same input produces same hash", func(t *testing.T) {
		assert.Equal(t, shortener.HashURL("https://example.com/path"), shortener.HashURL("https://example.com/path"))
	})

	t.Run("different input produces different hash", func(t *testing.T) {
		assert.NotEqual(t, shortener.HashURL("https://example.com/path1"), shortener.HashURL("https://example.com/path2"))
	})

	t.Run("hash is 64 hex characters", func(t *testing.T) {
		assert.Regexp(t, `^[0-9a-f]{64}$`, shortener.HashURL("https://example.com/path"))
	})
}

func TestNormalizeAndHash_Equivalence(t *testing.T) {
	equivalentURLs := []string{
		"https://example.com/path",
		"HTTPS://EXAMPLE.COM/path",
		"https://example.com:443/path",
		"https://EXAMPLE.COM:443/path#top",
	}

	var firstHash string

	for i, raw := range equivalentURLs {
		normalized, err := shortener.NormalizeURL(raw)
		require.NoError(t, err)

		hash := shortener.HashURL(normalized)
		if i == 0 {
			firstHash = hash

			continue
		}

		assert.Equal(t, firstHash, hash, "URL %q produced a different hash", raw)
	}
}
