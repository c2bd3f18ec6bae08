package httpcache

import (
	"regexp"
	"strings"
)

// Tag prefixes. path: identifies one exact URL path, seg: a path prefix,
// res: a coarse resource grouping.
const (
	tagPath     = "path:"
	tagSegment  = "seg:"
	tagResource = "res:"
)

var (
	versionSegment = regexp.MustCompile(`^[vV]\d+$`)
	numericID      = regexp.MustCompile(`^\d+$`)
	uuidID         = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// Key builds the cache key for a request: method plus the full URL
// including the query string, verbatim.
func Key(method, requestURI string) string {
	return method + ":" + requestURI
}

// isIDLike reports whether a path segment looks like an entity identifier,
// either all digits or UUID-shaped.
func isIDLike(segment string) bool {
	if numericID.MatchString(segment) {
		return true
	}
	return uuidID.MatchString(strings.ToLower(segment))
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return path
}

func splitSegments(path string) []string {
	parts := strings.Split(normalizePath(path), "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// isFrameworkSegment reports whether a segment carries no resource
// information, the literal "api" prefix or a version marker like "v1".
func isFrameworkSegment(segment string) bool {
	return strings.EqualFold(segment, "api") || versionSegment.MatchString(segment)
}

// ComputeTags derives the invalidation tag set for a request path: the
// literal path, every path prefix, and coarse resource tags built from the
// first segments left after dropping "api" and version markers.
func ComputeTags(path string) []string {
	fullPath := normalizePath(path)
	segments := splitSegments(fullPath)

	seen := make(map[string]struct{})
	tags := make([]string, 0, len(segments)+4)
	add := func(tag string) {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	add(tagPath + fullPath)

	acc := ""
	for _, seg := range segments {
		acc += "/" + seg
		add(tagSegment + acc)
	}

	filtered := make([]string, 0, len(segments))
	for _, seg := range segments {
		if !isFrameworkSegment(seg) {
			filtered = append(filtered, seg)
		}
	}

	if len(filtered) >= 1 {
		resource := filtered[0]
		add(tagResource + resource)
		add(tagResource + resource + ":list")

		if len(filtered) >= 2 && isIDLike(filtered[1]) {
			add(tagResource + resource + ":id:" + filtered[1])
		}
	}

	return tags
}

// MutationTags derives the tags a mutating request invalidates. The
// literal path tag is dropped, as are prefix tags that contain only
// framework segments; invalidating "seg:/api" would wipe every cached
// resource instead of the mutated one.
func MutationTags(path string) []string {
	tags := ComputeTags(path)
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		switch {
		case strings.HasPrefix(tag, tagResource):
			out = append(out, tag)
		case strings.HasPrefix(tag, tagSegment):
			if hasResourceSegment(strings.TrimPrefix(tag, tagSegment)) {
				out = append(out, tag)
			}
		}
	}
	return out
}

func hasResourceSegment(prefix string) bool {
	for _, seg := range splitSegments(prefix) {
		if !isFrameworkSegment(seg) {
			return true
		}
	}
	return false
}
