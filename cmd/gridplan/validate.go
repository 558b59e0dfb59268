package main

import (
	"github.com/aretw0/gridplan/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without solving",
	Long:  `Loads the configuration, applies --set overrides and builds the grid, reporting the first problem found.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printCfg, _ := cmd.Flags().GetBool("print")
		return cli.Validate(commonOptions(cmd), printCfg)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("print", false, "Print the effective configuration as YAML")
}
