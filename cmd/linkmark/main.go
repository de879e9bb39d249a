// Command linkmark highlights links on HTML pages by how recently they were visited.
package main

import (
	"github.com/bnema/linkmark/internal/cli/cmd"
	"github.com/bnema/linkmark/internal/domain/build"
)

// Set with -ldflags "-X main.version=...". Left at their defaults, they are
// filled from the binary's embedded module and VCS data.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetBuildInfo(build.Resolve(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	}))
	cmd.Execute()
}
