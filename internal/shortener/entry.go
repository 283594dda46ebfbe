package shortener

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxNamespaceLength bounds the length of a folded namespace.
const MaxNamespaceLength = 64

var namespacePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Namespace scopes a keyspace ("table"). Always lower-case.
type Namespace string

// Key identifies an Entry within its namespace.
type Key string

// Entry binds a short key to a normalized target URL within a namespace.
// Entries are immutable once stored.
type Entry struct {
	Key       Key
	Namespace Namespace
	TargetURL string
	CreatedAt time.Time
}

// ParseNamespace case-folds raw and checks it is an acceptable namespace.
func ParseNamespace(raw string) (Namespace, error) {
	ns := strings.ToLower(strings.TrimSpace(raw))

	if ns == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidNamespace)
	}

	if len(ns) > MaxNamespaceLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidNamespace, MaxNamespaceLength)
	}

	if !namespacePattern.MatchString(ns) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNamespace, ns)
	}

	return Namespace(ns), nil
}
