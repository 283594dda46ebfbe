package shortener

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength is the longest raw URL accepted for sharing.
const MaxURLLength = 2048

// NormalizeURL validates rawURL and returns its canonical form.
// - Requires an http or https scheme and a host
// - Lowercases the scheme and host
// - Removes default ports (80 for http, 443 for https)
// - Uppercases percent-escapes and decodes escaped unreserved characters
// - Rejects malformed query escapes and percent-encodes query bytes not allowed raw
// - Gives an empty path the root "/"; other paths keep their trailing slash as sent
// - Drops the fragment unless it is a client-side route ("#!" or "#/")
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}

	if len(rawURL) > MaxURLLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidURL, MaxURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	if u.Opaque != "" || u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.Host = strings.ToLower(u.Host)

	host := u.Host
	if strings.HasSuffix(host, ":80") && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(host, ":80")
	} else if strings.HasSuffix(host, ":443") && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(host, ":443")
	}

	escapedPath := normalizeEscapes(u.EscapedPath())
	if escapedPath == "" {
		escapedPath = "/"
	}

	path, err := url.PathUnescape(escapedPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	u.Path = path
	u.RawPath = escapedPath

	query, err := canonicalQuery(u.RawQuery)
	if err != nil {
		return "", err
	}

	u.RawQuery = query
	u.ForceQuery = false

	if !strings.HasPrefix(u.Fragment, "!") && !strings.HasPrefix(u.Fragment, "/") {
		u.Fragment = ""
		u.RawFragment = ""
	}

	return u.String(), nil
}

// normalizeEscapes rewrites every %XX triplet in s with uppercase hex digits,
// and decodes triplets that encode RFC 3986 unreserved characters.
func normalizeEscapes(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			b.WriteByte(s[i])

			continue
		}

		c := unhex(s[i+1])<<4 | unhex(s[i+2])
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteString(strings.ToUpper(s[i+1 : i+3]))
		}

		i += 2
	}

	return b.String()
}

// canonicalQuery applies the escape rules of normalizeEscapes to a raw query,
// rejecting malformed %XX triplets and percent-encoding every byte RFC 3986
// does not allow unescaped in a query.
func canonicalQuery(raw string) (string, error) {
	var b strings.Builder

	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		switch {
		case c == '%':
			if i+2 >= len(raw) || !isHex(raw[i+1]) || !isHex(raw[i+2]) {
				return "", fmt.Errorf("%w: malformed escape in query", ErrInvalidURL)
			}

			if d := unhex(raw[i+1])<<4 | unhex(raw[i+2]); isUnreserved(d) {
				b.WriteByte(d)
			} else {
				b.WriteByte('%')
				b.WriteString(strings.ToUpper(raw[i+1 : i+3]))
			}

			i += 2
		case isQueryChar(c):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}

	return b.String(), nil
}

// isQueryChar reports whether c may appear unescaped in a query:
// unreserved, sub-delims, ':', '@', '/' or '?'.
func isQueryChar(c byte) bool {
	return isUnreserved(c) || strings.IndexByte("!$&'()*+,;=:@/?", c) >= 0
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func isUnreserved(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// HashURL computes a SHA256 hash of the normalized URL.
// Returns the hash as a hex-encoded string.
func HashURL(normalizedURL string) string {
	h := sha256.Sum256([]byte(normalizedURL))
	return hex.EncodeToString(h[:])
}
