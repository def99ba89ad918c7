package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"runnersync/pkg/config"
	"runnersync/pkg/github"
)

var (
	syncOrg           string
	syncRepoType      string
	syncOverwrite     bool
	syncCreateMissing bool
	syncDryRun        bool
	syncConfigPath    string
)

var syncCmd = &cobra.Command{
	Use:   "sync <groups-file.yaml>",
	Short: "Reconcile runner group membership against a groups file",
	Long: `Reconcile the repository membership of the organization's self-hosted-runner
groups against a YAML groups file.

The groups file maps runner group names to glob patterns. A repository
belongs to a group when its name satisfies the group's rules:

  ci-group:
    - "app-*"
    - "!app-legacy"
  platform:
    - any: ["svc-*", "api-*"]
      all: ["!*-archived"]
  everything: "*"

Bare patterns in a list must all hold ("named app-* and not app-legacy");
explicit any/all rules each stand on their own, and matching any rule puts
the repository in the group.

By default matched repositories are merged into a group's current
membership. With --overwrite the matched set replaces the membership
outright. Groups in the file that don't exist in the organization are
skipped unless --create-missing is set, which creates them with visibility
"selected".

With --dry-run every mutating API call is suppressed at the transport layer
and the run reports what it would have sent. The reconciliation logic runs
unchanged, so the dry-run output reflects the live code path.

Examples:
  # Merge matched repositories into existing groups
  runnersync sync runner-groups.yaml --org myorg

  # Replace group membership and create missing groups
  runnersync sync runner-groups.yaml --org myorg --overwrite --create-missing

  # Only consider private repositories
  runnersync sync runner-groups.yaml --org myorg --repo-type private

  # Preview without touching the organization
  runnersync sync runner-groups.yaml --org myorg --dry-run`,
	Args: cobra.ExactArgs(1),
}

func init() {
	syncCmd.RunE = runSync
	syncCmd.Flags().StringVar(&syncOrg, "org", "", "GitHub organization (defaults to github.organization from config)")
	syncCmd.Flags().StringVar(&syncRepoType, "repo-type", "", "Repository type filter: all, public, private, forks, sources or member (default all)")
	syncCmd.Flags().BoolVar(&syncOverwrite, "overwrite", false, "Replace group membership with the matched set instead of merging")
	syncCmd.Flags().BoolVar(&syncCreateMissing, "create-missing", false, "Create configured groups that don't exist in the organization")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Suppress mutating API calls and show what would be sent")
	syncCmd.Flags().StringVar(&syncConfigPath, "config", "", "Path to the runnersync config file (default ~/.runnersync/config.yaml)")
}

func runSync(_ *cobra.Command, args []string) error {
	groupsFile := args[0]

	// Load and normalize the groups file before touching the network
	groupsCfg, err := github.LoadGroupsConfigFromFile(groupsFile)
	if err != nil {
		return fmt.Errorf("failed to load groups file: %w", err)
	}
	if err := groupsCfg.Validate(); err != nil {
		return fmt.Errorf("groups file validation failed: %w", err)
	}

	// Load runnersync configuration
	cfg, err := loadAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load runnersync config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid runnersync config: %w", err)
	}

	org, err := resolveOrg(cfg)
	if err != nil {
		return err
	}

	opts := resolveSyncOptions(cfg)
	if err := opts.Validate(); err != nil {
		return err
	}

	// Set up GitHub authentication
	authManager := github.NewAuthManager()
	tokenInfo, err := authManager.AuthenticateFromConfig(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "%s\n", github.GetAuthInstructions())
		return err
	}

	fmt.Printf("✓ Authenticated as %s\n", tokenInfo.User)

	token, err := authManager.GetToken(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to get GitHub token: %w", err)
	}

	var client github.APIClient
	if syncDryRun {
		fmt.Printf("🔍 Dry-run mode: mutating API calls are suppressed\n")
		client = github.NewDryRunClient(token)
	} else {
		client = github.NewClient(token)
	}

	fmt.Printf("📋 Reconciling %d configured groups in organization %s\n", len(groupsCfg.Groups), org)

	reconciler := github.NewReconciler(client, org, opts)
	result, err := reconciler.Sync(groupsCfg)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	displaySyncResult(result, syncDryRun)
	return nil
}

// loadAppConfig loads the runnersync config from --config or the default path
func loadAppConfig() (*config.Config, error) {
	if syncConfigPath != "" {
		return config.LoadConfigFromPath(syncConfigPath)
	}
	return config.LoadConfig()
}

// resolveOrg picks the organization from the --org flag or the config default
func resolveOrg(cfg *config.Config) (string, error) {
	if syncOrg != "" {
		return syncOrg, nil
	}
	if cfg.GitHub.Organization != "" {
		return cfg.GitHub.Organization, nil
	}
	return "", fmt.Errorf("organization not specified: use --org flag or set github.organization in config")
}

// resolveSyncOptions merges config defaults with command line flags; a flag
// that was set wins over the config value
func resolveSyncOptions(cfg *config.Config) github.Options {
	opts := github.Options{
		RepoType:      cfg.Sync.RepoType,
		Overwrite:     cfg.Sync.Overwrite,
		CreateMissing: cfg.Sync.CreateMissing,
	}
	if syncRepoType != "" {
		opts.RepoType = syncRepoType
	}
	if syncCmd.Flags().Changed("overwrite") {
		opts.Overwrite = syncOverwrite
	}
	if syncCmd.Flags().Changed("create-missing") {
		opts.CreateMissing = syncCreateMissing
	}
	return opts
}

// displaySyncResult prints the run summary in a human-readable format
func displaySyncResult(result *github.SyncResult, isDryRun bool) {
	for _, warning := range result.Warnings {
		fmt.Printf("⚠️  %s\n", warning)
	}

	for _, sync := range result.Synced {
		fmt.Printf("📦 %s (group %d): %d repositories assigned\n", sync.Name, sync.GroupID, len(sync.RepositoryIDs))
	}
	for _, created := range result.Created {
		fmt.Printf("📦 %s: created with %d repositories\n", created.Name, len(created.RepositoryIDs))
	}
	for _, name := range result.Unsupported {
		fmt.Printf("⚠️  %s: unsupported runner group, not synced\n", name)
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("⏭️  Skipped missing groups: %s\n", strings.Join(result.Skipped, ", "))
		fmt.Printf("💡 Use --create-missing to create them\n")
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Groups synced: %d\n", len(result.Synced))
	fmt.Printf("  • Groups created: %d\n", len(result.Created))
	fmt.Printf("  • Groups skipped: %d\n", len(result.Skipped))

	if isDryRun {
		fmt.Printf("\n✓ Dry-run completed. No changes were applied.\n")
	} else if result.HasChanges() {
		fmt.Printf("\n✅ Runner groups are in sync\n")
	} else {
		fmt.Printf("\n✓ Nothing to do\n")
	}
}
