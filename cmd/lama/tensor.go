package main

import (
	"github.com/aretw0/lama/internal/cli"
	"github.com/spf13/cobra"
)

var tensorCmd = &cobra.Command{
	Use:   "tensor [library] [name...]",
	Short: "Print 6x6 stiffness tensors in Voigt order (11, 22, 33, 12, 13, 23)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		path, names := libraryArg(args)
		return cli.Tensor(cmd.Context(), app, cli.TensorOptions{Path: path, Names: names, JSON: asJSON})
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [library] [name...]",
	Short: "Show a property report for library materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		path, names := libraryArg(args)
		return cli.Describe(cmd.Context(), app, path, names)
	},
}

func init() {
	rootCmd.AddCommand(tensorCmd)
	rootCmd.AddCommand(describeCmd)
	tensorCmd.Flags().Bool("json", false, "Print tensors as JSON (Pa)")
}
