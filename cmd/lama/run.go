package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/lama/internal/cli"
	"github.com/aretw0/lama/pkg/domain"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Locate the ccx executable on this host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		err = cli.Discover(cmd.Context(), app)
		if errors.Is(err, domain.ErrExecutableNotFound) {
			os.Exit(1)
		}
		return err
	},
}

var runCmd = &cobra.Command{
	Use:   "run <input.inp>",
	Short: "Run the solver on an input deck",
	Long: `Runs ccx synchronously on the given input deck and exits with the solver's
exit code. The executable is discovered unless --exe or solver.executable is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		exe, _ := cmd.Flags().GetString("exe")
		workDir, _ := cmd.Flags().GetString("workdir")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		trace, _ := cmd.Flags().GetBool("trace")

		code, err := cli.Run(cmd.Context(), app, cli.RunOptions{
			Input:      args[0],
			Executable: exe,
			WorkDir:    workDir,
			Timeout:    timeout,
			Trace:      trace,
		})
		if err != nil {
			return err
		}
		if code != 0 {
			fmt.Fprintf(os.Stderr, "solver exited with code %d\n", code)
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("exe", "", "Path to the ccx executable")
	runCmd.Flags().String("workdir", "", "Working directory for the solver (default: the input's directory)")
	runCmd.Flags().Duration("timeout", 0, "Abort the run after this long (e.g. 30m)")
	runCmd.Flags().Bool("trace", false, "Print the run's state path as a Mermaid diagram")
}
