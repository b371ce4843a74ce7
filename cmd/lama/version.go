package main

import (
	"fmt"

	"github.com/aretw0/lama"
	"github.com/aretw0/lama/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lama",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), lama.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "lama version %s\n", lama.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
