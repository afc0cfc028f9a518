package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("slovo", displayVersion())
	},
}

// displayVersion prefers the ldflags version, then the module version
// recorded by `go install`. Anything that is not semver is shown as is.
func displayVersion() string {
	v := version
	if v == "(devel)" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			v = info.Main.Version
		}
	}
	return normalizeVersion(v)
}

func normalizeVersion(v string) string {
	if !semver.IsValid(v) && semver.IsValid("v"+v) {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return v
	}
	if c := semver.Canonical(v); semver.Build(v) == "" {
		return c
	}
	return v
}
