// Package compileinfo reports the version control state a binary was built
// from, so that scores can be traced back to the code that produced them.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

type CompileInfo struct {
	Binary     string
	Module     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.GoVersion == "" {
		return "No build information is embedded in this binary."
	}

	details := []string{c.GoVersion}
	if c.Commit != "" {
		details = append(details, "commit "+c.Commit)
	}
	if c.CommitTime != "" {
		details = append(details, "committed "+c.CommitTime)
	}
	if c.Modified {
		details = append(details, "with uncommitted changes")
	}

	version := c.Version
	if version == "" {
		version = "(devel)"
	}

	return fmt.Sprintf("%s %s %s (%s)", c.Binary, c.Module, version, strings.Join(details, ", "))
}

// Get reads the build information embedded by the go tool.
func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		Binary:    z.Path,
		Module:    z.Main.Path,
		Version:   z.Main.Version,
		GoVersion: z.GoVersion,
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func PrintToStdErr() {
	fmt.Fprintln(os.Stderr, Get())
}
