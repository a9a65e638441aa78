// Package buildinfo reports the values stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/osp/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A" // set by ldflags
	Date    = "N/A" // set by ldflags
	Commit  = "N/A" // set by ldflags
)

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
