package opener

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		rawURL   string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "macOS",
			goos:     "darwin",
			rawURL:   "https://go.dev/doc/",
			wantName: "open",
			wantArgs: []string{"https://go.dev/doc/"},
		},
		{
			name:     "linux",
			goos:     "linux",
			rawURL:   "http://localhost:8080/a?b=c",
			wantName: "xdg-open",
			wantArgs: []string{"http://localhost:8080/a?b=c"},
		},
		{
			name:     "windows",
			goos:     "windows",
			rawURL:   "https://go.dev/",
			wantName: "cmd",
			wantArgs: []string{"/c", "start", "", "https://go.dev/"},
		},
		{
			name:    "file scheme",
			goos:    "linux",
			rawURL:  "file:///etc/passwd",
			wantErr: true,
		},
		{
			name:    "no host",
			goos:    "linux",
			rawURL:  "https:///path",
			wantErr: true,
		},
		{
			name:    "unsupported os",
			goos:    "plan9",
			rawURL:  "https://go.dev/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{goos: tt.goos}
			name, args, err := o.BuildCommand(tt.rawURL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestOpenURL_RunsCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := &Opener{
		goos: "darwin",
		run: func(name string, args ...string) error {
			gotName, gotArgs = name, args
			return nil
		},
	}

	if err := o.OpenURL("https://go.dev/"); err != nil {
		t.Fatalf("OpenURL failed: %v", err)
	}
	if gotName != "open" || len(gotArgs) != 1 || gotArgs[0] != "https://go.dev/" {
		t.Errorf("unexpected command %s %v", gotName, gotArgs)
	}
}

func TestOpenURL_WrapsFailure(t *testing.T) {
	boom := errors.New("boom")
	o := &Opener{goos: "linux", run: func(string, ...string) error { return boom }}

	if err := o.OpenURL("https://go.dev/"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
