// Package resolver normalizes free-form user input into a canonical
// repository reference. It is pure: no I/O, no side effects.
package resolver

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/sugimori/git-analyzer/internal/domain"
)

// schemePattern matches inputs that look like absolute URLs.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Resolve turns raw input into a RepositoryRef. Accepted forms are
// "owner/name" and any absolute URL whose path starts with two non-empty
// segments (extra segments are ignored). Anything else fails with an
// InputError rather than guessing.
func Resolve(input string) (domain.RepositoryRef, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.RepositoryRef{}, &domain.InputError{Input: input, Reason: "empty input"}
	}

	if schemePattern.MatchString(trimmed) {
		return resolveURL(trimmed)
	}

	segments := splitSegments(trimmed)
	if len(segments) != 2 {
		return domain.RepositoryRef{}, &domain.InputError{Input: input, Reason: "expected exactly owner/name"}
	}
	return domain.RepositoryRef{Owner: segments[0], Name: segments[1]}, nil
}

func resolveURL(raw string) (domain.RepositoryRef, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return domain.RepositoryRef{}, &domain.InputError{Input: raw, Reason: "malformed URL"}
	}

	segments := splitSegments(parsed.Path)
	if len(segments) < 2 {
		return domain.RepositoryRef{}, &domain.InputError{Input: raw, Reason: "URL path does not contain owner/name"}
	}
	return domain.RepositoryRef{Owner: segments[0], Name: segments[1]}, nil
}

// splitSegments splits on "/" and discards empty segments.
func splitSegments(s string) []string {
	var segments []string
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
