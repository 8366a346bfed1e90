// Package buildinfo reports which maplabel build and placement engine
// produced a result.
//
// Version, Commit and Date are stamped at link time:
//
//	go build -ldflags "-X github.com/matzehuels/maplabel/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/maplabel/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/maplabel/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// EngineVersion is not stamped. It names the placement search and the
// cached placement format, and is part of every placement cache key, so it
// must change whenever either changes.
package buildinfo

import "fmt"

// EngineVersion identifies the placement engine. Bump it when a change to
// the placement search alters results or the cached entry layout changes.
const EngineVersion = "2"

var (
	// Version is the release version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build description served by the HTTP health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
	Engine  string `json:"engine"`
}

// Get returns the current build description.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Engine: EngineVersion}
}

// String returns the build description, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nengine: %s", Version, Commit, Date, EngineVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s (engine %s)\ncommit: %s\nbuilt: %s\n", Version, EngineVersion, Commit, Date)
}
