package platform

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// ErrMissingAccount is returned when platform mode has no account ID.
var ErrMissingAccount = errors.New("AWS account ID is required for platform mode")

var accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

func checkAccountID(id string) error {
	if id == "" {
		return ErrMissingAccount
	}
	if !accountIDPattern.MatchString(id) {
		return fmt.Errorf("invalid AWS account ID %q: must be 12 digits", id)
	}
	return nil
}

// dnsSuffix returns the service domain of a partition.
func dnsSuffix(partition string) string {
	if partition == "aws-cn" {
		return "amazonaws.com.cn"
	}
	return "amazonaws.com"
}

// ManagedPolicyARN returns the ARN of an AWS managed policy.
func ManagedPolicyARN(partition, name string) string {
	return arn.ARN{
		Partition: partition,
		Service:   "iam",
		AccountID: "aws",
		Resource:  "policy/" + name,
	}.String()
}

// RoleARN returns the ARN of an IAM role.
func RoleARN(partition, accountID, name string) string {
	return arn.ARN{
		Partition: partition,
		Service:   "iam",
		AccountID: accountID,
		Resource:  "role/" + name,
	}.String()
}

// OIDCProviderHost is the issuer host of an EKS cluster's OIDC provider,
// without scheme.
func OIDCProviderHost(region, partition, providerID string) string {
	return fmt.Sprintf("oidc.eks.%s.%s/id/%s", region, dnsSuffix(partition), providerID)
}

// OIDCProviderARN returns the IAM ARN of the OIDC provider at host.
func OIDCProviderARN(partition, accountID, host string) string {
	return arn.ARN{
		Partition: partition,
		Service:   "iam",
		AccountID: accountID,
		Resource:  "oidc-provider/" + host,
	}.String()
}

// RepositoryImage returns the pull reference of repository:tag in the
// account's private registry.
func RepositoryImage(accountID, region, partition, repository, tag string) string {
	return fmt.Sprintf("%s.dkr.ecr.%s.%s/%s:%s", accountID, region, dnsSuffix(partition), repository, tag)
}

func checkARN(s string) error {
	if _, err := arn.Parse(s); err != nil {
		return fmt.Errorf("building ARN %q: %w", s, err)
	}
	return nil
}
