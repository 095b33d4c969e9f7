package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	databaseURL string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "menuctl",
	Short: "menuctl runs maintenance tasks for the menu discovery backend",
	Long:  "menuctl runs schema migrations, restaurant seeding and other maintenance against the menu database.",

	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}
