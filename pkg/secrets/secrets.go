// Package secrets resolves secret values from AWS Secrets Manager, so
// deployments can reference their GitHub token instead of embedding it in a
// config file.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// AWS error code constants
const (
	resourceNotFoundException = "ResourceNotFoundException"
	accessDeniedException     = "AccessDeniedException"
)

var (
	// ErrSecretNotFound is returned when the referenced secret does not exist
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when the secret exists but holds no value
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the AWS credentials cannot read the secret
	ErrAccessDenied = errors.New("access denied to secret")
)

// SecretsAPI is the part of the AWS Secrets Manager client this package uses
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager reads secret values through the default AWS credential chain
type Manager struct {
	api SecretsAPI
}

// NewManager creates a Manager using the default AWS configuration
func NewManager(ctx context.Context) (*Manager, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Manager{api: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewManagerWithAPI creates a Manager on top of an existing API client
func NewManagerWithAPI(api SecretsAPI) *Manager {
	return &Manager{api: api}
}

// GetSecretString fetches a secret and returns its value as a string.
// Binary secrets come back as their raw bytes.
func (m *Manager) GetSecretString(ctx context.Context, secretID string) (string, error) {
	if secretID == "" {
		return "", fmt.Errorf("secret id cannot be empty")
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	}

	output, err := m.api.GetSecretValue(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case resourceNotFoundException:
				return "", fmt.Errorf("%w: %s", ErrSecretNotFound, secretID)
			case accessDeniedException:
				return "", fmt.Errorf("%w: %s", ErrAccessDenied, secretID)
			}
		}
		return "", fmt.Errorf("failed to get secret value: %w", err)
	}

	switch {
	case output.SecretString != nil:
		return aws.ToString(output.SecretString), nil
	case output.SecretBinary != nil:
		return string(output.SecretBinary), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrSecretEmpty, secretID)
	}
}
