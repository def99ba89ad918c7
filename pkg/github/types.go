package github

// Repository is one entry of the organization repository snapshot. The
// snapshot is fetched once per run and is read-only afterward; matching runs
// against Name only (the plain repository name, no owner prefix).
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	Fork     bool   `json:"fork"`
}

// RunnerGroup is one entry of the organization runner-group snapshot,
// fetched once per run and read-only afterward.
type RunnerGroup struct {
	ID                       int64  `json:"id"`
	Name                     string `json:"name"`
	Visibility               string `json:"visibility"`
	Default                  bool   `json:"default"`
	Inherited                bool   `json:"inherited"`
	AllowsPublicRepositories bool   `json:"allows_public_repositories"`
}

// VisibilitySelected is the only runner-group visibility whose membership can
// be managed through an explicit repository list. Groups with any other
// visibility are reported with a warning and handled best-effort.
const VisibilitySelected = "selected"

// Repository type filters accepted by the organization repository listing.
const (
	RepoTypeAll     = "all"
	RepoTypePublic  = "public"
	RepoTypePrivate = "private"
	RepoTypeForks   = "forks"
	RepoTypeSources = "sources"
	RepoTypeMember  = "member"
)

// ValidRepoTypes lists the accepted --repo-type values in display order.
var ValidRepoTypes = []string{
	RepoTypeAll,
	RepoTypePublic,
	RepoTypePrivate,
	RepoTypeForks,
	RepoTypeSources,
	RepoTypeMember,
}

// IsValidRepoType reports whether t is an accepted repository type filter.
func IsValidRepoType(t string) bool {
	for _, v := range ValidRepoTypes {
		if t == v {
			return true
		}
	}
	return false
}
