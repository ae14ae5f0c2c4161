package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/lex00/wetwire-fanout-go/internal/ports"
)

// MinKubernetesVersion is the oldest EKS version the platform mode accepts.
var MinKubernetesVersion = semver.MustParse("1.28")

// Validate reports every problem in c as one error wrapping ErrInvalid.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if errs := validation.IsDNS1123Label(c.Namespace); len(errs) > 0 {
		add("namespace %q: %s", c.Namespace, strings.Join(errs, ", "))
	}
	if errs := validation.IsValidPortNum(c.BasePort); len(errs) > 0 {
		add("basePort %d: %s", c.BasePort, strings.Join(errs, ", "))
	}
	if _, err := ports.ParseStrategy(c.PortStrategy); err != nil {
		add("portStrategy: %v", err)
	}
	switch corev1.PullPolicy(c.ImagePullPolicy) {
	case corev1.PullAlways, corev1.PullIfNotPresent, corev1.PullNever:
	default:
		add("imagePullPolicy %q: must be Always, IfNotPresent or Never", c.ImagePullPolicy)
	}
	if errs := validation.IsDNS1123Subdomain(c.ServiceAccountName); len(errs) > 0 {
		add("serviceAccountName %q: %s", c.ServiceAccountName, strings.Join(errs, ", "))
	}
	if errs := validation.IsQualifiedName(c.RevisionAnnotation); len(errs) > 0 {
		add("revisionAnnotation %q: %s", c.RevisionAnnotation, strings.Join(errs, ", "))
	}
	if errs := validation.IsDNS1123Subdomain(c.Ingress.Name); len(errs) > 0 {
		add("ingress.name %q: %s", c.Ingress.Name, strings.Join(errs, ", "))
	}

	if c.Platform.Enabled {
		problems = append(problems, c.Platform.validate()...)
	} else if c.Image == "" {
		add("image is required unless platform.enabled is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (p *Platform) validate() []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	v, err := semver.NewVersion(p.KubernetesVersion)
	switch {
	case err != nil:
		add("platform.kubernetesVersion %q: %v", p.KubernetesVersion, err)
	case v.LessThan(MinKubernetesVersion):
		add("platform.kubernetesVersion %s is older than %s", v, MinKubernetesVersion)
	}

	if p.Region == "" {
		add("platform.region is required")
	}
	if errs := validation.IsDNS1123Label(p.ClusterName); len(errs) > 0 {
		add("platform.clusterName %q: %s", p.ClusterName, strings.Join(errs, ", "))
	}
	if len(p.SubnetIDs) == 0 {
		add("platform.subnetIDs must not be empty")
	}
	if p.OIDCProviderID == "" {
		add("platform.oidcProviderID is required")
	}
	if errs := validation.IsDNS1123Label(p.ACKNamespace); len(errs) > 0 {
		add("platform.ackNamespace %q: %s", p.ACKNamespace, strings.Join(errs, ", "))
	}

	ng := p.NodeGroup
	if ng.MinSize < 0 || ng.MinSize > ng.DesiredSize || ng.DesiredSize > ng.MaxSize {
		add("platform.nodeGroup: sizes must satisfy 0 <= min <= desired <= max (got %d/%d/%d)", ng.MinSize, ng.DesiredSize, ng.MaxSize)
	}
	if len(ng.InstanceTypes) == 0 {
		add("platform.nodeGroup.instanceTypes must not be empty")
	}

	switch p.Repository.TagMutability {
	case "MUTABLE", "IMMUTABLE":
	default:
		add("platform.repository.tagMutability %q: must be MUTABLE or IMMUTABLE", p.Repository.TagMutability)
	}
	return problems
}
