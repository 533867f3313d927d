// Package opener opens pages in the system browser
package opener

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"browsetree/internal/ports"
)

// Opener implements ports.URLOpener with the platform's URL handler
type Opener struct {
	goos string
	run  func(name string, args ...string) error
}

var _ ports.URLOpener = (*Opener)(nil)

// NewOpener creates an opener for the running platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// OpenURL opens rawURL in the default browser
func (o *Opener) OpenURL(rawURL string) error {
	name, args, err := o.BuildCommand(rawURL)
	if err != nil {
		return err
	}
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", rawURL, err)
	}
	return nil
}

// BuildCommand returns the command line that opens rawURL. Only absolute
// http and https URLs are accepted.
func (o *Opener) BuildCommand(rawURL string) (string, []string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", nil, fmt.Errorf("refusing to open %q: only http and https URLs are supported", rawURL)
	}
	if u.Host == "" {
		return "", nil, fmt.Errorf("refusing to open %q: missing host", rawURL)
	}

	target := u.String()
	switch o.goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
