package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"runnersync/pkg/config"
	"runnersync/pkg/secrets"
)

// AuthManager handles GitHub authentication
type AuthManager struct {
	client *github.Client
	token  string
}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{}
}

// GetToken retrieves the GitHub token. Sources are tried in order: the
// GITHUB_TOKEN environment variable, the token embedded in the config file,
// and finally the AWS Secrets Manager secret the config file references.
func (am *AuthManager) GetToken(ctx context.Context, cfg *config.Config) (string, error) {
	// First, check environment variable
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return strings.TrimSpace(token), nil
	}

	// Then check config file
	if cfg != nil && cfg.GitHub.Token != "" {
		return strings.TrimSpace(cfg.GitHub.Token), nil
	}

	// Finally resolve a configured Secrets Manager reference
	if cfg != nil && cfg.GitHub.TokenSecret != "" {
		manager, err := secrets.NewManager(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to set up AWS Secrets Manager client: %w", err)
		}
		token, err := manager.GetSecretString(ctx, cfg.GitHub.TokenSecret)
		if err != nil {
			return "", fmt.Errorf("failed to read GitHub token from secret %q: %w", cfg.GitHub.TokenSecret, err)
		}
		return strings.TrimSpace(token), nil
	}

	return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN environment variable or configure token or token_secret in ~/.runnersync/config.yaml")
}

// Authenticate sets up the GitHub client with the provided token
func (am *AuthManager) Authenticate(token string) error {
	if token == "" {
		return fmt.Errorf("GitHub token cannot be empty")
	}

	// Create OAuth2 token source
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	// Create GitHub client
	am.client = github.NewClient(tc)
	am.token = token

	return nil
}

// ValidateToken validates the GitHub token and checks permissions
func (am *AuthManager) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	if am.client == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate() first")
	}

	// Get the authenticated user to validate the token; the same response
	// carries the granted scopes
	user, resp, err := am.client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to validate GitHub token: %w", err)
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	tokenInfo := &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}

	// Validate required permissions
	if err := am.validatePermissions(tokenInfo.Scopes); err != nil {
		return tokenInfo, err
	}

	return tokenInfo, nil
}

// validatePermissions checks if the token has required permissions.
// Fine-grained tokens report no classic scopes at all, so an empty scope
// list passes here and permission problems surface as API errors instead.
func (am *AuthManager) validatePermissions(scopes []string) error {
	if len(scopes) == 0 {
		return nil
	}

	requiredScopes := []string{"admin:org", "repo"}
	scopeMap := make(map[string]bool)

	for _, scope := range scopes {
		scopeMap[scope] = true
	}

	var missingScopes []string
	for _, required := range requiredScopes {
		if !scopeMap[required] {
			missingScopes = append(missingScopes, required)
		}
	}

	if len(missingScopes) > 0 {
		return fmt.Errorf("GitHub token missing required permissions: %s. Please ensure your token has the following scopes: %s",
			strings.Join(missingScopes, ", "), strings.Join(requiredScopes, ", "))
	}

	return nil
}

// GetClient returns the authenticated GitHub client
func (am *AuthManager) GetClient() *github.Client {
	return am.client
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// AuthenticateFromConfig is a convenience method that handles the full authentication flow
func (am *AuthManager) AuthenticateFromConfig(ctx context.Context, cfg *config.Config) (*TokenInfo, error) {
	// Get token from environment, config, or secrets manager
	token, err := am.GetToken(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Authenticate with the token
	if err := am.Authenticate(token); err != nil {
		return nil, err
	}

	// Validate token and permissions
	tokenInfo, err := am.ValidateToken(ctx)
	if err != nil {
		return nil, err
	}

	return tokenInfo, nil
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Environment Variable (Recommended for CI/CD):
   export GITHUB_TOKEN="your_personal_access_token"

2. Configuration File:
   Add the following to ~/.runnersync/config.yaml:

   github:
     token: "your_personal_access_token"

3. AWS Secrets Manager (for deployments with AWS credentials):
   Store the token as a plain string secret and reference it:

   github:
     token_secret: "arn:aws:secretsmanager:eu-west-1:123456789012:secret:runnersync/github-token"

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Click "Generate new token (classic)"
3. Select the following scopes:
   - admin:org (Full control of orgs, required for runner groups)
   - repo (Full control of private repositories, required to list them)
4. Copy the generated token and use it with one of the methods above

Note: Managing organization runner groups requires organization admin access.`
}
