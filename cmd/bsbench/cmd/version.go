package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the bsbench CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bsbench version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Black-Scholes batch pricer and benchmark harness")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
