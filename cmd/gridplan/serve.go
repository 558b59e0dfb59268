package main

import (
	"github.com/aretw0/gridplan/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Solve once and serve the results over HTTP",
	Long:  `Solves the configured grid and exposes the grid, the results, the traced paths and Prometheus metrics as a JSON API.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		algorithm, _ := cmd.Flags().GetString("algorithm")

		return cli.Serve(cmd.Context(), cli.ServeOptions{
			Options:   commonOptions(cmd),
			Algorithm: algorithm,
			Addr:      ":" + port,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringP("algorithm", "a", "both", "Algorithm to run (vi, pi, both)")
}
