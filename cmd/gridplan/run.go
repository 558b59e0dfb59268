package main

import (
	"github.com/aretw0/gridplan/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve the grid and compare the algorithms",
	Long:  `Solves the configured grid, prints a value heatmap with the greedy policy for each algorithm and a comparison report.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		algorithm, _ := cmd.Flags().GetString("algorithm")
		animate, _ := cmd.Flags().GetBool("animate")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return cli.Execute(cmd.Context(), cli.RunOptions{
			Options:   commonOptions(cmd),
			Algorithm: algorithm,
			Animate:   animate,
			Quiet:     quiet,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("algorithm", "a", "both", "Algorithm to run (vi, pi, both)")
	runCmd.Flags().Bool("animate", false, "Replay the last policy's path step by step")
	runCmd.Flags().BoolP("quiet", "q", false, "Print only the comparison report")

	// 'run' is the default when no command is given.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
