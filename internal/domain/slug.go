package domain

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/gosimple/slug"
)

// fallbackSlugPrefix names tasks whose content has no sluggable characters.
const fallbackSlugPrefix = "task-"

// Slugify converts free text into a URL-safe path segment:
// lower-cased, transliterated, non-alphanumerics collapsed into single dashes.
// Non-blank content that transliterates to nothing (e.g. "!!!") gets a stable
// "task-<hash>" segment so it never shares the root's empty path.
func Slugify(content string) string {
	trimmed := strings.Trim(content, " \t")
	s := slug.Make(trimmed)
	if s != "" || trimmed == "" {
		return s
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(trimmed))
	return fmt.Sprintf("%s%08x", fallbackSlugPrefix, h.Sum32())
}

// SlugEqual compares a user-typed segment with a node slug case-insensitively.
func SlugEqual(segment, nodeSlug string) bool {
	if strings.EqualFold(segment, nodeSlug) {
		return true
	}
	return Slugify(segment) == nodeSlug
}
