package app

import "fmt"

// Set via ldflags, e.g.
//
//	go build -ldflags "-X github.com/heartmarshall/dossier-issuance/internal/app.Version=1.4.0" ./cmd/server
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is reported by startup logs and the /health endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s+%s (%s)", Version, Commit, BuildTime)
}
