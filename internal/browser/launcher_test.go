package browser

import (
	"errors"
	"reflect"
	"testing"
)

func testLauncher(goos, command, browserEnv string) (*Launcher, *[][]string) {
	var calls [][]string
	l := NewLauncher(command, []string{"--new-window"}, nil)
	l.goos = goos
	l.getenv = func(key string) string {
		if key == "BROWSER" {
			return browserEnv
		}
		return ""
	}
	l.start = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return errors.New("not installed")
	}
	return l, &calls
}

func TestOpen_CandidateOrder(t *testing.T) {
	const link = "https://unsplash.com/photos/a1"

	tests := []struct {
		name     string
		goos     string
		command  string
		env      string
		expected [][]string
	}{
		{
			name: "linux default",
			goos: "linux",
			expected: [][]string{
				{"xdg-open", link},
			},
		},
		{
			name:    "configured with BROWSER",
			goos:    "linux",
			command: "firefox",
			env:     "w3m",
			expected: [][]string{
				{"firefox", "--new-window", link},
				{"w3m", link},
				{"xdg-open", link},
			},
		},
		{
			name:    "darwin configured app",
			goos:    "darwin",
			command: "Safari",
			expected: [][]string{
				{"Safari", "--new-window", link},
				{"open", "-a", "Safari", link},
				{"open", link},
			},
		},
		{
			name: "windows default",
			goos: "windows",
			expected: [][]string{
				{"rundll32", "url.dll,FileProtocolHandler", link},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, calls := testLauncher(tt.goos, tt.command, tt.env)
			if err := l.Open(link); err == nil {
				t.Fatal("expected error when every candidate fails")
			}
			if !reflect.DeepEqual(*calls, tt.expected) {
				t.Errorf("calls = %v, want %v", *calls, tt.expected)
			}
		})
	}
}

func TestOpen_StopsAtFirstSuccess(t *testing.T) {
	l, _ := testLauncher("linux", "firefox", "w3m")
	var calls []string
	l.start = func(name string, args ...string) error {
		calls = append(calls, name)
		if name == "w3m" {
			return nil
		}
		return errors.New("missing")
	}

	if err := l.Open("https://example.com"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !reflect.DeepEqual(calls, []string{"firefox", "w3m"}) {
		t.Errorf("calls = %v", calls)
	}
}

func TestOpen_RejectsBadLinks(t *testing.T) {
	l, calls := testLauncher("linux", "", "")
	for _, link := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "://bad"} {
		if err := l.Open(link); err == nil {
			t.Errorf("Open(%q) succeeded", link)
		}
	}
	if len(*calls) != 0 {
		t.Errorf("launched %v for rejected links", *calls)
	}
}
