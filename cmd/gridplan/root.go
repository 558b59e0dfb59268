package main

import (
	"fmt"
	"os"

	"github.com/aretw0/gridplan/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridplan",
	Short: "gridplan plans warehouse robot routes with MDP solvers",
	Long: `gridplan models a warehouse floor as a Markov Decision Process and solves it
with Value Iteration and Policy Iteration, comparing the resulting policies
with Monte-Carlo rollouts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "gridplan.yaml", "Configuration file (YAML or JSON) layered over the defaults; setting width or height drops the default shelves")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a config key, e.g. --set gamma=0.95 --set obstacles=1,2;3,4")
	rootCmd.PersistentFlags().Uint64("seed", 1, "Seed for the policy-iteration initial policy and rollouts")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// commonOptions reads the persistent flags.
func commonOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	overrides, _ := flags.GetStringArray("set")
	seed, _ := flags.GetUint64("seed")
	logLevel, _ := flags.GetString("log-level")
	noColor, _ := flags.GetBool("no-color")

	return cli.Options{
		ConfigPath: configPath,
		Overrides:  overrides,
		Seed:       seed,
		LogLevel:   logLevel,
		NoColor:    noColor,
		Out:        cmd.OutOrStdout(),
	}
}
