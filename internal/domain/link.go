package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// LinkID identifies a unique URL
type LinkID = uuid.UUID

// MissingLinkID is the sentinel link every tree root points at
var MissingLinkID = uuid.Nil

// Link is a deduplicated URL record
type Link struct {
	ID       LinkID
	URL      string
	Title    string
	DomainID *LinkID // nil when the link is itself a domain or has no host
	IsDomain bool
}

// LinkIDFor returns the stable identifier of a URL.
// The same URL always maps to the same id, whichever store resolves it.
func LinkIDFor(rawURL string) LinkID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(rawURL))
}

// DomainOf returns the domain URL (scheme://host/) of a URL and whether
// the URL is that domain itself.
func DomainOf(rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("url %q has no host", rawURL)
	}

	domainURL := fmt.Sprintf("%s://%s/", strings.ToLower(u.Scheme), strings.ToLower(u.Host))
	isDomain := (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.Fragment == ""
	return domainURL, isDomain, nil
}
