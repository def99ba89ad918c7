package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"runnersync/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize runnersync configuration",
	Long: `Create the runnersync configuration file at ~/.runnersync/config.yaml.

When running on a terminal the command prompts for the GitHub organization
and a personal access token; the token is read with echo disabled. Leave
the token empty to keep using the GITHUB_TOKEN environment variable or an
AWS Secrets Manager reference instead.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file without asking")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("⚠️  Configuration file already exists at: %s\n", configPath)
		fmt.Print("Do you want to overwrite it? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response) // Ignore error for user input
		if response != "y" && response != "Y" {
			fmt.Println("Configuration initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		GitHub: config.GitHubConfig{
			Organization: "your-organization",
		},
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := cfg.SaveConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("✅ Configuration file created at: %s\n", configPath)
	fmt.Println("📝 Edit the file to adjust sync defaults or reference a token secret.")

	return nil
}

// promptConfig fills the configuration interactively. The token prompt reads
// with echo disabled so the token never shows on screen.
func promptConfig(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("GitHub organization: ")
	org, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read organization: %w", err)
	}
	if org = strings.TrimSpace(org); org != "" {
		cfg.GitHub.Organization = org
	}

	fmt.Print("GitHub token (leave empty to use GITHUB_TOKEN): ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token := strings.TrimSpace(string(tokenBytes)); token != "" {
		cfg.GitHub.Token = token
	}

	return nil
}
