// Package awsid looks up the AWS account of the current credentials.
package awsid

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Resolver returns the account ID that generated resources belong to.
type Resolver interface {
	AccountID(ctx context.Context) (string, error)
}

// identityAPI is the subset of the STS client used here.
type identityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// STSResolver asks STS who the caller is.
type STSResolver struct {
	client identityAPI
}

// NewSTSResolver loads the default credential chain for region.
func NewSTSResolver(ctx context.Context, region string) (*STSResolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &STSResolver{client: sts.NewFromConfig(cfg)}, nil
}

// AccountID implements Resolver.
func (r *STSResolver) AccountID(ctx context.Context) (string, error) {
	identity, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	account := aws.ToString(identity.Account)
	if account == "" {
		return "", errors.New("caller identity has no account")
	}
	return account, nil
}

// Static is a Resolver with a fixed answer.
type Static string

// AccountID implements Resolver.
func (s Static) AccountID(context.Context) (string, error) {
	return string(s), nil
}
