package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradesim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tradesim version %s\n", version)
		fmt.Fprintln(out, "Monte Carlo simulator for fixed-risk trading sessions")
		fmt.Fprintln(out, "https://github.com/rustyeddy/tradesim")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
