package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "futures-relay",
	Short: "A CLI for the futures signal relay services",
	Long: `futures-relay receives directional alerts over a webhook, gates them on a
correlated instrument and places bracketed futures orders through the broker.

Run the relay with "relay-service serve" and manage the journal schema with "migrate".`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
