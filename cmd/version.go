package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionString adds the vcs revision when the binary was built from a checkout.
func versionString() string {
	s := fmt.Sprintf("%s version: %s", app, version)

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return s
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			rev := setting.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			s += fmt.Sprintf(" (%s)", rev)
			break
		}
	}

	return s + " " + info.GoVersion
}
