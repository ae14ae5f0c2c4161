package optimizer

import (
	"testing"
	"time"

	"k8s.io/utils/ptr"

	"github.com/lex00/wetwire-fanout-go/internal/config"
	"github.com/lex00/wetwire-fanout-go/internal/fanout"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
	"github.com/lex00/wetwire-fanout-go/internal/platform"
	s3v1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/s3/v1alpha1"
)

func testBundle(t *testing.T, image string) []manifest.Object {
	t.Helper()
	opts := fanout.DefaultOptions()
	opts.Image = image
	res, err := fanout.Run([]string{"logs"}, time.Unix(0, 0).UTC(), opts)
	if err != nil {
		t.Fatalf("fanout.Run() error = %v", err)
	}
	return res.Bundle().Objects()
}

func rulesHit(result *Result) map[string]bool {
	hit := map[string]bool{}
	for _, s := range result.Suggestions {
		hit[s.Rule] = true
	}
	return hit
}

func TestOptimize(t *testing.T) {
	result, err := Optimize(testBundle(t, "app:latest"), Options{Category: "all"})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	hit := rulesHit(result)
	for _, id := range []string{"OPT-DEP-001", "OPT-DEP-002", "OPT-DEP-003", "OPT-DEP-004", "OPT-S3-002", "OPT-ING-001"} {
		if !hit[id] {
			t.Errorf("expected %s", id)
		}
	}
	// The generated bucket is private.
	if hit["OPT-S3-001"] {
		t.Error("unexpected OPT-S3-001 for a private bucket")
	}

	if result.Summary.Total != len(result.Suggestions) {
		t.Errorf("Summary.Total = %d, want %d", result.Summary.Total, len(result.Suggestions))
	}
	if result.Suggestions[0].Resource != "s3.services.k8s.aws/v1alpha1/Bucket//logs" {
		t.Errorf("Suggestions[0].Resource = %s, want the bucket first", result.Suggestions[0].Resource)
	}
}

func TestOptimizePinnedImage(t *testing.T) {
	result, err := Optimize(testBundle(t, "registry.example.com:5000/app:1.4.2"), Options{})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if rulesHit(result)["OPT-DEP-002"] {
		t.Error("pinned image should not trigger OPT-DEP-002")
	}
}

func TestOptimizeWithCategoryFilter(t *testing.T) {
	result, err := Optimize(testBundle(t, "app:latest"), Options{Category: "security"})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	for _, s := range result.Suggestions {
		if s.Category != "security" {
			t.Errorf("expected only security suggestions, got %s", s.Category)
		}
	}
	if result.Summary.Security != result.Summary.Total {
		t.Errorf("Summary = %+v, want only security", result.Summary)
	}

	if _, err := Optimize(nil, Options{Category: "style"}); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestOptimizePlatform(t *testing.T) {
	p := config.Default().Platform
	p.AccountID = "123456789012"
	p.SubnetIDs = []string{"subnet-a"}
	p.OIDCProviderID = "ABC"
	objs, err := platform.Build(p, "default", "s3-full-access")
	if err != nil {
		t.Fatalf("platform.Build() error = %v", err)
	}

	result, err := Optimize(objs.List(), Options{})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	hit := rulesHit(result)
	if !hit["OPT-IAM-001"] {
		t.Error("expected OPT-IAM-001 for AmazonS3FullAccess")
	}
	if !hit["OPT-ECR-002"] {
		t.Error("expected OPT-ECR-002 for mutable tags")
	}
	if hit["OPT-ECR-001"] {
		t.Error("scan on push is enabled by default")
	}
	if !hit["OPT-EKS-001"] {
		t.Error("expected OPT-EKS-001 for desired == max")
	}
}

func TestPublicBucket(t *testing.T) {
	b := s3v1alpha1.NewBucket()
	b.Name = "public"
	b.Spec = s3v1alpha1.BucketSpec{Name: "public", ACL: ptr.To(s3v1alpha1.ACLPublicRead)}

	result, err := Optimize([]manifest.Object{b}, Options{Category: "security"})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Rule != "OPT-S3-001" {
		t.Errorf("Suggestions = %+v, want OPT-S3-001", result.Suggestions)
	}
}

func TestFloatingTag(t *testing.T) {
	tests := []struct {
		image string
		want  bool
	}{
		{"app", true},
		{"app:latest", true},
		{"registry:5000/app", true},
		{"registry:5000/app:v1", false},
		{"app@sha256:abc", false},
	}
	for _, tt := range tests {
		if got := floatingTag(tt.image); got != tt.want {
			t.Errorf("floatingTag(%q) = %v, want %v", tt.image, got, tt.want)
		}
	}
}
