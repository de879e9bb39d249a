// Package build holds build-time information.
package build

import (
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/linkmark"
}

// Resolve fills fields the linker left at their defaults from the module
// and VCS data embedded by `go install` / `go build`.
func Resolve(info Info) Info {
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return merge(info, bi)
}

func merge(info Info, bi *debug.BuildInfo) Info {
	if (info.Version == "" || info.Version == "dev") && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" || info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" || info.BuildDate == unknown {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}
