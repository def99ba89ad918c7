package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "runnersync",
	Short: "A CLI tool to keep GitHub Actions runner groups in sync with glob rules",
	Long: `Runnersync reconciles the membership of a GitHub organization's
self-hosted-runner groups against a declarative configuration of glob
patterns, so a named runner group always contains exactly the repositories
whose names match its configured rules.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}
