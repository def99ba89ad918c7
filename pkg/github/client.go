package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
	ctx    context.Context
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	return newClient(token, false)
}

// NewDryRunClient creates a client whose mutating calls are suppressed at the
// transport layer and answered with synthetic no-op responses. Read calls hit
// the network normally, so a dry run exercises the same code path as a live
// one without changing anything remotely.
func NewDryRunClient(token string) *Client {
	return newClient(token, true)
}

func newClient(token string, dryRun bool) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	if dryRun {
		tc.Transport = &DryRunTransport{Base: tc.Transport}
	}

	return &Client{
		client: github.NewClient(tc),
		ctx:    ctx,
	}
}

// ListOrgRepositories lists the organization's repositories, filtered by the
// given repository type, across all pages
func (c *Client) ListOrgRepositories(org, repoType string) ([]Repository, error) {
	opts := &github.RepositoryListByOrgOptions{
		Type:        repoType,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allRepos []Repository

	err := WithRetry(func() error {
		allRepos = nil // Reset on retry
		opts.Page = 0  // Reset pagination on retry

		for {
			repos, resp, err := c.client.Repositories.ListByOrg(c.ctx, org, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("repositories of organization %s", org))
			}

			for _, repo := range repos {
				allRepos = append(allRepos, Repository{
					ID:       repo.GetID(),
					Name:     repo.GetName(),
					FullName: repo.GetFullName(),
					Private:  repo.GetPrivate(),
					Fork:     repo.GetFork(),
				})
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return allRepos, err
}

// ListRunnerGroups lists all self-hosted-runner groups of the organization
func (c *Client) ListRunnerGroups(org string) ([]RunnerGroup, error) {
	opts := &github.ListOrgRunnerGroupOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allGroups []RunnerGroup

	err := WithRetry(func() error {
		allGroups = nil // Reset on retry
		opts.Page = 0   // Reset pagination on retry

		for {
			groups, resp, err := c.client.Actions.ListOrganizationRunnerGroups(c.ctx, org, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("runner groups of organization %s", org))
			}

			for _, group := range groups.RunnerGroups {
				allGroups = append(allGroups, c.convertRunnerGroup(group))
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return allGroups, err
}

// GetGroupRepositories lists the IDs of the repositories currently granted
// access to a runner group
func (c *Client) GetGroupRepositories(org string, groupID int64) ([]int64, error) {
	opts := &github.ListOptions{PerPage: 100}

	var allIDs []int64

	err := WithRetry(func() error {
		allIDs = nil  // Reset on retry
		opts.Page = 0 // Reset pagination on retry

		for {
			repos, resp, err := c.client.Actions.ListRepositoryAccessRunnerGroup(c.ctx, org, groupID, opts)
			if err != nil {
				return WrapGitHubError(err, fmt.Sprintf("repositories of runner group %d", groupID))
			}

			for _, repo := range repos.Repositories {
				allIDs = append(allIDs, repo.GetID())
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return allIDs, err
}

// SetGroupRepositories replaces the repository list of a runner group in a
// single call
func (c *Client) SetGroupRepositories(org string, groupID int64, repoIDs []int64) error {
	if repoIDs == nil {
		repoIDs = []int64{}
	}
	req := github.SetRepoAccessRunnerGroupRequest{
		SelectedRepositoryIDs: repoIDs,
	}

	return WithRetry(func() error {
		_, err := c.client.Actions.SetRepositoryAccessRunnerGroup(c.ctx, org, groupID, req)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("runner group %d", groupID))
		}
		return nil
	}, DefaultRetryConfig())
}

// CreateGroup creates a runner group with visibility "selected" and the given
// repositories assigned
func (c *Client) CreateGroup(org, name string, repoIDs []int64) error {
	req := github.CreateRunnerGroupRequest{
		Name:                  github.String(name),
		Visibility:            github.String(VisibilitySelected),
		SelectedRepositoryIDs: repoIDs,
	}

	return WithRetry(func() error {
		_, _, err := c.client.Actions.CreateOrganizationRunnerGroup(c.ctx, org, req)
		if err != nil {
			return WrapGitHubError(err, fmt.Sprintf("runner group %s", name))
		}
		return nil
	}, DefaultRetryConfig())
}

// convertRunnerGroup converts a GitHub API runner group to our internal type
func (c *Client) convertRunnerGroup(group *github.RunnerGroup) RunnerGroup {
	return RunnerGroup{
		ID:                       group.GetID(),
		Name:                     group.GetName(),
		Visibility:               group.GetVisibility(),
		Default:                  group.GetDefault(),
		Inherited:                group.GetInherited(),
		AllowsPublicRepositories: group.GetAllowsPublicRepositories(),
	}
}
