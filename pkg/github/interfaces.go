package github

// APIClient defines the interface for GitHub API operations
type APIClient interface {
	// Organization snapshot operations
	ListOrgRepositories(org, repoType string) ([]Repository, error)
	ListRunnerGroups(org string) ([]RunnerGroup, error)

	// Runner group membership operations
	GetGroupRepositories(org string, groupID int64) ([]int64, error)
	SetGroupRepositories(org string, groupID int64, repoIDs []int64) error
	CreateGroup(org, name string, repoIDs []int64) error
}

// Reconciler defines the interface for runner-group reconciliation operations
type Reconciler interface {
	Sync(cfg *GroupsConfig) (*SyncResult, error)
	SyncExisting(group RunnerGroup, repos []Repository, rules []MatchRule, overwrite bool) ([]int64, error)
	CreateMissing(name string, repos []Repository, rules []MatchRule) ([]int64, error)
}

// Options holds the knobs of a reconciliation run. Zero value means: list all
// repository types, merge with existing membership, never create groups.
type Options struct {
	RepoType      string `json:"repo_type"`
	Overwrite     bool   `json:"overwrite"`
	CreateMissing bool   `json:"create_missing"`
}

// Validate checks option values that cannot be caught by flag parsing
func (o Options) Validate() error {
	if o.RepoType != "" && !IsValidRepoType(o.RepoType) {
		return &ValidationError{
			Field:   "repo-type",
			Value:   o.RepoType,
			Message: "must be one of: all, public, private, forks, sources, member",
		}
	}
	return nil
}

// GroupSync records one completed group operation: the group touched and the
// full repository-ID collection sent to the API for it.
type GroupSync struct {
	Name          string  `json:"name"`
	GroupID       int64   `json:"group_id,omitempty"`
	RepositoryIDs []int64 `json:"repository_ids"`
}

// SyncResult summarizes a reconciliation run for reporting
type SyncResult struct {
	Synced      []GroupSync `json:"synced,omitempty"`
	Created     []GroupSync `json:"created,omitempty"`
	Skipped     []string    `json:"skipped,omitempty"`
	Unsupported []string    `json:"unsupported,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// HasChanges reports whether the run touched (or, in dry-run, would touch)
// any remote group.
func (r *SyncResult) HasChanges() bool {
	return len(r.Synced) > 0 || len(r.Created) > 0
}
