package service

import (
	"strings"

	"github.com/gosimple/slug"
)

const maxSlugLength = 200

func init() {
	slug.MaxLength = maxSlugLength
}

// MakeSlug derives a URL-safe slug from a title
func MakeSlug(title string) string {
	s := slug.Make(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, "_", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
