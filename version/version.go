// Package version reports the build version of the timeline tools.
package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/vsariola/timeline/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with a -dirty
// suffix for modified trees.
var Hash = revision()

func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}

// String returns Version if set, otherwise Hash, otherwise "dev".
func String() string {
	switch {
	case Version != "":
		return Version
	case Hash != "":
		return Hash
	}
	return "dev"
}
