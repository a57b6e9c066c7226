// Package buildinfo holds version metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/m3rciful/cashflowbot/core/buildinfo.Version=v1.0.0 \
//	  -X github.com/m3rciful/cashflowbot/core/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/m3rciful/cashflowbot/core/buildinfo.Date=$(date -u +%FT%TZ)"
package buildinfo

import "strings"

var (
	Version = "dev"
	Commit  = "local"
	// Date is RFC3339; empty in local builds.
	Date = ""
)

// String renders "version (commit, date)", omitting the date when unset.
func String() string {
	parts := []string{Commit}
	if Date != "" {
		parts = append(parts, Date)
	}
	return Version + " (" + strings.Join(parts, ", ") + ")"
}
