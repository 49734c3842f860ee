package common

import (
	"errors"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// ErrBlockedLink is returned when user content links to a blocked domain
var ErrBlockedLink = errors.New("content links to a blocked domain")

// ErrTooManyLinks is returned when user content exceeds the link budget
var ErrTooManyLinks = errors.New("content contains too many links")

// MaxLinksPerComment link budget for regular users
const MaxLinksPerComment = 3

// URL shorteners hide the destination and are a common spam vector
var blockedLinkDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"goo.gl",
	"t.ly",
	"is.gd",
	"cutt.ly",
}

// URL pattern to extract links from content
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// ExtractLinks returns every http(s) URL in content
func ExtractLinks(content string) []string {
	return urlPattern.FindAllString(content, -1)
}

func isBlockedHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return slices.ContainsFunc(blockedLinkDomains, func(d string) bool {
		return host == d || strings.HasSuffix(host, "."+d)
	})
}

// ValidateUserLinks checks user-authored content (comments) for link spam.
// Staff (privileged) are exempt.
func ValidateUserLinks(content string, privileged bool) error {
	if privileged {
		return nil
	}

	links := ExtractLinks(content)
	if len(links) > MaxLinksPerComment {
		return ErrTooManyLinks
	}
	for _, l := range links {
		if isBlockedHost(l) {
			return ErrBlockedLink
		}
	}
	return nil
}
