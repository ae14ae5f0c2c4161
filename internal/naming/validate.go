package naming

import (
	"fmt"
	"net"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	bucketNameMinLength = 3
	bucketNameMaxLength = 63
)

var (
	reservedBucketPrefixes = []string{"xn--", "sthree-", "amzn-s3-demo-"}
	reservedBucketSuffixes = []string{"-s3alias", "--ol-s3", ".mrap", "--x-s3", "--table-s3"}
)

// ValidateBucketName checks name against the S3 general purpose bucket
// naming rules.
func ValidateBucketName(name string) []string {
	var problems []string

	if l := len(name); l < bucketNameMinLength || l > bucketNameMaxLength {
		problems = append(problems, fmt.Sprintf("bucket name must be between %d and %d characters (is %d)", bucketNameMinLength, bucketNameMaxLength, l))
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' && r != '.' {
			problems = append(problems, "bucket name may only contain lowercase letters, numbers, dots and hyphens")
			break
		}
	}
	if name != "" {
		if !isAlnum(name[0]) {
			problems = append(problems, "bucket name must begin with a letter or number")
		}
		if !isAlnum(name[len(name)-1]) {
			problems = append(problems, "bucket name must end with a letter or number")
		}
	}
	if strings.Contains(name, "..") {
		problems = append(problems, "bucket name must not contain two adjacent periods")
	}
	if ip := net.ParseIP(name); ip != nil && ip.To4() != nil {
		problems = append(problems, "bucket name must not be formatted as an IP address")
	}
	for _, p := range reservedBucketPrefixes {
		if strings.HasPrefix(name, p) {
			problems = append(problems, fmt.Sprintf("bucket name must not start with the reserved prefix %q", p))
		}
	}
	for _, s := range reservedBucketSuffixes {
		if strings.HasSuffix(name, s) {
			problems = append(problems, fmt.Sprintf("bucket name must not end with the reserved suffix %q", s))
		}
	}

	return problems
}

// ValidateObjectName checks that name can be used for both a Deployment and
// its Service. Services require an RFC 1035 label, which is the stricter of
// the two.
func ValidateObjectName(name string) []string {
	return validation.IsDNS1035Label(name)
}

// ValidateContainerName checks a container name (RFC 1123 label).
func ValidateContainerName(name string) []string {
	return validation.IsDNS1123Label(name)
}

// ValidateIngressPath checks an HTTP ingress path.
func ValidateIngressPath(path string) []string {
	var problems []string
	if !strings.HasPrefix(path, "/") {
		problems = append(problems, "ingress path must be absolute")
	}
	if strings.ContainsAny(path, " \t\r\n") {
		problems = append(problems, "ingress path must not contain whitespace")
	}
	return problems
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
