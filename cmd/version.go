package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/catalog"
)

// version is stamped by the release build with -ldflags "-X".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codequiz build and built-in catalog versions",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "codequiz", version)
		if short, _ := cmd.Flags().GetBool("short"); short {
			return
		}
		fmt.Fprintf(out, "catalog  %s (%d questions)\n", catalog.Default().Version, catalog.Default().Size())
		fmt.Fprintf(out, "go       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the codequiz version")
}
