package github

import (
	"fmt"

	"github.com/google/go-github/v66/github"
)

// Validator provides enhanced validation with GitHub API access
type Validator struct {
	client *Client
}

// NewValidator creates a new validator with GitHub API access
func NewValidator(token string) *Validator {
	return &Validator{
		client: NewClient(token),
	}
}

// ValidateConfig performs comprehensive validation: the offline structural
// checks first, then GitHub API checks against the organization. Findings
// that sync would tolerate (missing groups, unexpected visibility) come back
// as warnings; conditions that would fail a sync come back as the error.
func (v *Validator) ValidateConfig(cfg *GroupsConfig, org string) ([]string, error) {
	// First perform basic validation
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Then perform GitHub API validation
	if err := v.validateOrgAccess(org); err != nil {
		return nil, err
	}

	groups, err := v.client.ListRunnerGroups(org)
	if err != nil {
		return nil, fmt.Errorf("failed to list runner groups of organization '%s': %w", org, err)
	}

	classification := Classify(cfg.Groups, groups)
	warnings := append([]string{}, classification.Warnings...)
	for _, missing := range classification.Missing {
		warnings = append(warnings, fmt.Sprintf(
			"runner group '%s' does not exist in organization '%s'; sync creates it only when missing-group creation is enabled",
			missing.Name, org))
	}

	return warnings, nil
}

// validateOrgAccess checks that the organization exists and the token can see it
func (v *Validator) validateOrgAccess(org string) error {
	_, _, err := v.client.client.Organizations.Get(v.client.ctx, org)
	if err != nil {
		if githubErr, ok := err.(*github.ErrorResponse); ok && githubErr.Response.StatusCode == 404 {
			return fmt.Errorf("organization '%s' does not exist or you don't have access to it", org)
		}
		return fmt.Errorf("failed to validate organization access: %w", err)
	}
	return nil
}
