// Package awssecrets resolves configuration secrets from AWS Secrets Manager.
package awssecrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/example/certbatch/internal/ports/secondary"
)

// AWS error codes the resolver maps to sentinels.
const (
	resourceNotFoundException = "ResourceNotFoundException"
	accessDeniedException     = "AccessDeniedException"
)

// Resolution failures, matchable with errors.Is.
var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrSecretEmpty    = errors.New("secret value is empty")
	ErrAccessDenied   = errors.New("access denied to secret")
	ErrKeyNotFound    = errors.New("key not found in secret")
)

// managerAPI is the subset of the Secrets Manager client the resolver uses.
type managerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver implements secondary.SecretResolver. A reference is a secret
// name or ARN, optionally followed by "#key" to select one field of a JSON
// secret. Values are cached for the life of the resolver.
type Resolver struct {
	api    managerAPI
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// New creates a Resolver over an existing client.
func New(api managerAPI, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		api:    api,
		logger: logger,
		cache:  make(map[string]string),
	}
}

// NewFromEnvironment loads AWS credentials from the default chain.
func NewFromEnvironment(ctx context.Context, region string, logger *slog.Logger) (*Resolver, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return New(secretsmanager.NewFromConfig(cfg), logger), nil
}

// Resolve returns the value behind ref.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	id, key, _ := strings.Cut(ref, "#")
	if id == "" {
		return "", fmt.Errorf("empty secret reference")
	}

	raw, err := r.secretString(ctx, id)
	if err != nil {
		return "", err
	}
	if key == "" {
		return raw, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", id, err)
	}
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

func (r *Resolver) secretString(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	if v, ok := r.cache[id]; ok {
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	r.logger.Debug("fetching secret", "name", id)
	out, err := r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case resourceNotFoundException:
				return "", fmt.Errorf("%w: %s", ErrSecretNotFound, id)
			case accessDeniedException:
				return "", fmt.Errorf("%w: %s", ErrAccessDenied, id)
			}
			return "", fmt.Errorf("GetSecretValue failed: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
		}
		return "", fmt.Errorf("GetSecretValue failed: %w", err)
	}

	value := aws.ToString(out.SecretString)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretEmpty, id)
	}

	r.mu.Lock()
	r.cache[id] = value
	r.mu.Unlock()
	return value, nil
}

// Ensure Resolver implements the interface.
var _ secondary.SecretResolver = (*Resolver)(nil)
