package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"runnersync/pkg/config"
	"runnersync/pkg/github"
)

var validateOrg string

var validateCmd = &cobra.Command{
	Use:   "validate <groups-file.yaml>",
	Short: "Validate a runner groups file",
	Long: `Validate a runner groups file for syntax and logical errors.

Offline validation (always performed):
• YAML syntax and document structure
• Group values are pattern strings, pattern lists, or any/all rules
• Duplicate group names
• Glob pattern syntax

Online validation (when an organization is known and authentication works):
• The organization exists and the token can access it
• Configured groups exist as runner groups in the organization
• Runner group visibility is "selected"

Online findings that a sync would tolerate are reported as warnings, not
errors, and authentication failures fall back to offline-only validation.

Examples:
  runnersync validate runner-groups.yaml
  runnersync validate runner-groups.yaml --org myorg`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateOrg, "org", "", "GitHub organization for online checks (defaults to github.organization from config)")
}

func runValidate(_ *cobra.Command, args []string) error {
	groupsFile := args[0]

	fmt.Printf("🔍 Validating groups file: %s\n", groupsFile)

	groupsCfg, err := github.LoadGroupsConfigFromFile(groupsFile)
	if err != nil {
		return fmt.Errorf("groups file validation failed: %w", err)
	}
	if err := groupsCfg.Validate(); err != nil {
		return fmt.Errorf("groups file validation failed: %w", err)
	}

	fmt.Printf("✓ YAML syntax and structure are valid\n")
	fmt.Printf("📋 %d runner groups configured\n", len(groupsCfg.Groups))

	// Everything past this point is best-effort online validation
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("⚠️  Could not load runnersync config: %v\n", err)
		fmt.Printf("\n✅ Groups file is valid (offline validation only)\n")
		return nil
	}

	org := validateOrg
	if org == "" {
		org = cfg.GitHub.Organization
	}
	if org == "" {
		fmt.Printf("⚠️  Organization not specified and no default configured\n")
		fmt.Printf("   Use --org flag or set github.organization in config for online checks\n")
		fmt.Printf("\n✅ Groups file is valid (offline validation only)\n")
		return nil
	}

	authManager := github.NewAuthManager()
	tokenInfo, err := authManager.AuthenticateFromConfig(context.Background(), cfg)
	if err != nil {
		fmt.Printf("⚠️  GitHub authentication failed: %v\n", err)
		fmt.Printf("   Skipping online checks against organization %s\n", org)
		fmt.Printf("\n✅ Groups file is valid (offline validation only)\n")
		return nil
	}

	fmt.Printf("✓ Authenticated as %s\n", tokenInfo.User)
	fmt.Printf("🔍 Checking runner groups in organization %s...\n", org)

	token, err := authManager.GetToken(context.Background(), cfg)
	if err != nil {
		fmt.Printf("⚠️  Could not get GitHub token: %v\n", err)
		fmt.Printf("\n✅ Groups file is valid (offline validation only)\n")
		return nil
	}

	validator := github.NewValidator(token)
	warnings, err := validator.ValidateConfig(groupsCfg, org)
	if err != nil {
		return fmt.Errorf("online validation failed: %w", err)
	}

	for _, warning := range warnings {
		fmt.Printf("⚠️  %s\n", warning)
	}

	fmt.Printf("\n✅ Groups file is valid and ready to sync\n")
	fmt.Printf("\n💡 Next steps:\n")
	fmt.Printf("   • Preview changes: runnersync sync %s --org %s --dry-run\n", groupsFile, org)
	fmt.Printf("   • Apply changes:   runnersync sync %s --org %s\n", groupsFile, org)

	return nil
}
