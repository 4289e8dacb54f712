package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the reported version string. It defaults to "dev" and can be
// overridden at build time with -ldflags "-X".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("diophantus %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
