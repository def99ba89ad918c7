package github

import "fmt"

// reconciler implements the Reconciler interface
type reconciler struct {
	client APIClient
	org    string
	opts   Options
}

// NewReconciler creates a new reconciler for one organization
func NewReconciler(client APIClient, org string, opts Options) Reconciler {
	return &reconciler{
		client: client,
		org:    org,
		opts:   opts,
	}
}

// Sync runs one full reconciliation pass: snapshot the organization
// repositories and runner groups, classify the configured groups, update
// every existing group, then create the missing ones when enabled. The two
// snapshots are fetched once and never re-read, so the whole run works
// against a consistent point-in-time view. The first failing remote call
// aborts the run.
func (r *reconciler) Sync(cfg *GroupsConfig) (*SyncResult, error) {
	repoType := r.opts.RepoType
	if repoType == "" {
		repoType = RepoTypeAll
	}

	repos, err := r.client.ListOrgRepositories(r.org, repoType)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories of organization %q: %w", r.org, err)
	}

	groups, err := r.client.ListRunnerGroups(r.org)
	if err != nil {
		return nil, fmt.Errorf("failed to list runner groups of organization %q: %w", r.org, err)
	}

	classification := Classify(cfg.Groups, groups)

	result := &SyncResult{
		Unsupported: classification.Unsupported,
		Warnings:    classification.Warnings,
	}

	// Existing groups are updated before any missing group is created,
	// one group at a time.
	for _, supported := range classification.Supported {
		finalIDs, err := r.SyncExisting(supported.Group, repos, supported.Rules, r.opts.Overwrite)
		if err != nil {
			return nil, err
		}
		result.Synced = append(result.Synced, GroupSync{
			Name:          supported.Group.Name,
			GroupID:       supported.Group.ID,
			RepositoryIDs: finalIDs,
		})
	}

	for _, missing := range classification.Missing {
		if !r.opts.CreateMissing {
			result.Skipped = append(result.Skipped, missing.Name)
			continue
		}
		matchedIDs, err := r.CreateMissing(missing.Name, repos, missing.Rules)
		if err != nil {
			return nil, err
		}
		result.Created = append(result.Created, GroupSync{
			Name:          missing.Name,
			RepositoryIDs: matchedIDs,
		})
	}

	return result, nil
}

// SyncExisting reconciles the repository list of one existing group. With
// overwrite false the matched repositories are merged into the group's
// current assignment; with overwrite true the matched set replaces it
// without fetching the current one. Either way the group is written with a
// single set call, and the returned slice is the exact ID collection sent.
func (r *reconciler) SyncExisting(group RunnerGroup, repos []Repository, rules []MatchRule, overwrite bool) ([]int64, error) {
	matched, err := matchRepositoryIDs(repos, rules)
	if err != nil {
		return nil, err
	}

	ids := matched
	if !overwrite {
		current, err := r.client.GetGroupRepositories(r.org, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch current repositories of runner group %q: %w", group.Name, err)
		}
		// Duplicates between current and matched are fine, the API
		// deduplicates the selected list on its side.
		ids = append(current, matched...)
	}

	if err := r.client.SetGroupRepositories(r.org, group.ID, ids); err != nil {
		return nil, fmt.Errorf("failed to update runner group %q: %w", group.Name, err)
	}

	return ids, nil
}

// CreateMissing creates a configured group that does not exist remotely,
// with visibility "selected" and the matched repositories assigned
func (r *reconciler) CreateMissing(name string, repos []Repository, rules []MatchRule) ([]int64, error) {
	matched, err := matchRepositoryIDs(repos, rules)
	if err != nil {
		return nil, err
	}

	if err := r.client.CreateGroup(r.org, name, matched); err != nil {
		return nil, fmt.Errorf("failed to create runner group %q: %w", name, err)
	}

	return matched, nil
}

// matchRepositoryIDs collects the IDs of snapshot repositories whose names
// satisfy the rule list, preserving snapshot order
func matchRepositoryIDs(repos []Repository, rules []MatchRule) ([]int64, error) {
	var ids []int64
	for _, repo := range repos {
		ok, err := MatchesAny(repo.Name, rules)
		if err != nil {
			return nil, err
		}
		if ok {
			ids = append(ids, repo.ID)
		}
	}
	return ids, nil
}
