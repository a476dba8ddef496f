// Package buildinfo holds version data stamped in at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/brainswap/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

const notAvailable = "N/A"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func Version() string {
	return orNA(buildVersion)
}

// PrintBuildData writes the version, date and commit, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", orNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(buildCommit))
}
