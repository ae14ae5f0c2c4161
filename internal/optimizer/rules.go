package optimizer

import (
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	networkingv1 "k8s.io/api/networking/v1"

	"github.com/lex00/wetwire-fanout-go/internal/manifest"
	ecrv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/ecr/v1alpha1"
	eksv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/eks/v1alpha1"
	iamv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/iam/v1alpha1"
	s3v1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/s3/v1alpha1"
)

var rules = []Rule{
	{
		ID:         "OPT-DEP-001",
		Kind:       "Deployment",
		Category:   "reliability",
		Severity:   "medium",
		Title:      "Deployment runs a single replica",
		Suggestion: "Run at least two replicas so a node drain does not take the entity offline.",
		Check: deployment(func(d *appsv1.Deployment) bool {
			return d.Spec.Replicas == nil || *d.Spec.Replicas < 2
		}),
	},
	{
		ID:         "OPT-DEP-002",
		Kind:       "Deployment",
		Category:   "reliability",
		Severity:   "medium",
		Title:      "Container image uses a floating tag",
		Suggestion: "Pin the image to a version tag or digest instead of latest.",
		Check: deployment(func(d *appsv1.Deployment) bool {
			for _, c := range d.Spec.Template.Spec.Containers {
				if floatingTag(c.Image) {
					return true
				}
			}
			return false
		}),
	},
	{
		ID:         "OPT-DEP-003",
		Kind:       "Deployment",
		Category:   "performance",
		Severity:   "medium",
		Title:      "Container has no resource requests",
		Suggestion: "Set CPU and memory requests so the scheduler can place pods on the node group.",
		Check: deployment(func(d *appsv1.Deployment) bool {
			for _, c := range d.Spec.Template.Spec.Containers {
				if len(c.Resources.Requests) == 0 {
					return true
				}
			}
			return false
		}),
	},
	{
		ID:         "OPT-DEP-004",
		Kind:       "Deployment",
		Category:   "reliability",
		Severity:   "low",
		Title:      "Container has no readiness probe",
		Suggestion: "Add a readiness probe on the container port so the load balancer only routes to ready pods.",
		Check: deployment(func(d *appsv1.Deployment) bool {
			for _, c := range d.Spec.Template.Spec.Containers {
				if c.ReadinessProbe == nil {
					return true
				}
			}
			return false
		}),
	},
	{
		ID:         "OPT-S3-001",
		Kind:       "Bucket",
		Category:   "security",
		Severity:   "high",
		Title:      "Bucket ACL grants public access",
		Suggestion: "Use the private canned ACL and serve objects through the workload.",
		Check: bucket(func(b *s3v1alpha1.Bucket) bool {
			return b.Spec.ACL != nil && strings.HasPrefix(*b.Spec.ACL, "public-")
		}),
	},
	{
		ID:         "OPT-S3-002",
		Kind:       "Bucket",
		Category:   "cost",
		Severity:   "low",
		Title:      "Bucket has no tags",
		Suggestion: "Tag buckets so storage cost can be allocated per entity.",
		Check: bucket(func(b *s3v1alpha1.Bucket) bool {
			return b.Spec.Tagging == nil || len(b.Spec.Tagging.TagSet) == 0
		}),
	},
	{
		ID:         "OPT-IAM-001",
		Kind:       "Role",
		Category:   "security",
		Severity:   "high",
		Title:      "Role has full access to a service",
		Suggestion: "Replace the FullAccess managed policy with an inline policy scoped to the generated buckets.",
		Check: role(func(r *iamv1alpha1.Role) bool {
			for _, p := range r.Spec.Policies {
				if p != nil && strings.HasSuffix(*p, "FullAccess") {
					return true
				}
			}
			return false
		}),
	},
	{
		ID:         "OPT-ECR-001",
		Kind:       "Repository",
		Category:   "security",
		Severity:   "medium",
		Title:      "Repository does not scan images on push",
		Suggestion: "Enable imageScanningConfiguration.scanOnPush.",
		Check: repository(func(r *ecrv1alpha1.Repository) bool {
			sc := r.Spec.ImageScanningConfiguration
			return sc == nil || sc.ScanOnPush == nil || !*sc.ScanOnPush
		}),
	},
	{
		ID:         "OPT-ECR-002",
		Kind:       "Repository",
		Category:   "reliability",
		Severity:   "low",
		Title:      "Repository tags are mutable",
		Suggestion: "Set imageTagMutability to IMMUTABLE so a tag always names the same image.",
		Check: repository(func(r *ecrv1alpha1.Repository) bool {
			return r.Spec.ImageTagMutability == nil || *r.Spec.ImageTagMutability != ecrv1alpha1.TagImmutable
		}),
	},
	{
		ID:         "OPT-ING-001",
		Kind:       "Ingress",
		Category:   "security",
		Severity:   "medium",
		Title:      "Ingress is internet-facing",
		Suggestion: "Use the internal scheme unless every entity must be public.",
		Check: func(obj manifest.Object) bool {
			ing, ok := obj.(*networkingv1.Ingress)
			return ok && ing.Annotations["alb.ingress.kubernetes.io/scheme"] == "internet-facing"
		},
	},
	{
		ID:         "OPT-EKS-001",
		Kind:       "Nodegroup",
		Category:   "cost",
		Severity:   "low",
		Title:      "Node group starts at its maximum size",
		Suggestion: "Lower desiredSize below maxSize and let the autoscaler add nodes.",
		Check: func(obj manifest.Object) bool {
			ng, ok := obj.(*eksv1alpha1.Nodegroup)
			if !ok || ng.Spec.ScalingConfig == nil {
				return false
			}
			sc := ng.Spec.ScalingConfig
			return sc.DesiredSize != nil && sc.MaxSize != nil && *sc.DesiredSize >= *sc.MaxSize
		},
	},
}

func floatingTag(image string) bool {
	if strings.Contains(image, "@") {
		return false
	}
	slash := strings.LastIndex(image, "/")
	colon := strings.LastIndex(image, ":")
	if colon <= slash {
		return true
	}
	return image[colon+1:] == "latest"
}

func deployment(check func(*appsv1.Deployment) bool) func(manifest.Object) bool {
	return func(obj manifest.Object) bool {
		d, ok := obj.(*appsv1.Deployment)
		return ok && check(d)
	}
}

func bucket(check func(*s3v1alpha1.Bucket) bool) func(manifest.Object) bool {
	return func(obj manifest.Object) bool {
		b, ok := obj.(*s3v1alpha1.Bucket)
		return ok && check(b)
	}
}

func role(check func(*iamv1alpha1.Role) bool) func(manifest.Object) bool {
	return func(obj manifest.Object) bool {
		r, ok := obj.(*iamv1alpha1.Role)
		return ok && check(r)
	}
}

func repository(check func(*ecrv1alpha1.Repository) bool) func(manifest.Object) bool {
	return func(obj manifest.Object) bool {
		r, ok := obj.(*ecrv1alpha1.Repository)
		return ok && check(r)
	}
}
