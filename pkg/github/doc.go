// Package github keeps the membership of organization self-hosted-runner
// groups in sync with a declarative configuration of glob patterns, so a
// runner group always contains exactly the repositories whose names match
// its configured rules.
//
// The package includes:
// - APIClient interface for the GitHub API operations the sync needs
// - Pattern matching with any/all glob rule composition and "!" negation
// - A normalizer turning raw YAML into ordered group specifications
// - A classifier partitioning configured groups against the remote state
// - A reconciler applying merge or overwrite membership updates
// - A dry-run transport that suppresses mutating calls
package github
