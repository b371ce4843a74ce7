package main

import (
	"github.com/aretw0/lama/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [library]",
	Short: "Check every material of a library file",
	Long: `Validates each record of a YAML or JSON material library and prints a
summary table. Exits non-zero when any record is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		path, _ := libraryArg(args)
		return cli.Validate(cmd.Context(), app, path)
	},
}

var importCmd = &cobra.Command{
	Use:   "import [library]",
	Short: "Store the valid materials of a library in the configured store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		path, _ := libraryArg(args)
		return cli.Import(cmd.Context(), app, path)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <library> [name...]",
	Short: "Write materials from the configured store to a library file",
	Long: `Writes the named materials (all stored materials when none are named) to a
YAML library, or JSON when the path ends in .json.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		path, names := libraryArg(args)
		return cli.Export(cmd.Context(), app, path, names)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
