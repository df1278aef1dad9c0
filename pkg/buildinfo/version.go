// Package buildinfo holds the diagramkit version stamped at link time.
//
//	PKG=github.com/matzehuels/diagramkit/pkg/buildinfo
//	go build -ldflags "-X $PKG.Version=v0.3.0 -X $PKG.Commit=$(git rev-parse --short HEAD) \
//	    -X $PKG.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/diagramkit
package buildinfo

import "fmt"

// Link-time variables. Unstamped builds report "dev".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build identity reported by the CLI and the HTTP API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build identity.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String renders the identity on one line, e.g. "v0.3.0 (abc1234, 2026-01-02T03:04:05Z)".
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
