package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lama/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lama",
	Short: "lama validates structural materials and runs the CalculiX solver",
	Long: `lama checks material libraries (isotropic, orthotropic, stiffness matrix and
spring definitions) for physical consistency, builds their 6x6 stiffness
tensors, and runs the ccx solver on input decks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default ./lama.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// setup loads configuration honoring the persistent flags.
func setup(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return cli.Setup(cli.Settings{
		ConfigPath: configPath,
		LogLevel:   level,
		LogFormat:  format,
	}, cmd.OutOrStdout())
}

// libraryArg returns the first positional argument, if any.
func libraryArg(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}
