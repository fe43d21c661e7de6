package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of studio",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Printf("studio version %s\n", version)
			return
		}
		tui.PrintBanner(os.Stdout, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print a single line")
}
