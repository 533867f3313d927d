package ports

// URLOpener opens a page in the user's browser
type URLOpener interface {
	// OpenURL opens rawURL with the platform's default handler.
	// Only http and https URLs are accepted.
	OpenURL(rawURL string) error
}
