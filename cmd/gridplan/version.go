package main

import (
	"fmt"

	"github.com/aretw0/gridplan"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gridplan",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gridplan version %s\n", gridplan.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
