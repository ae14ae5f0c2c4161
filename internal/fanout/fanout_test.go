package fanout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"

	"github.com/lex00/wetwire-fanout-go/internal/naming"
	"github.com/lex00/wetwire-fanout-go/internal/ports"
)

var testTime = time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Image = "123456789012.dkr.ecr.us-east-1.amazonaws.com/unleash-task:latest"
	return opts
}

func envValue(c corev1.Container, name string) string {
	for _, e := range c.Env {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

func TestRun_MixedInput(t *testing.T) {
	res, err := Run([]string{"Marketing Assets", "", "logs-2024"}, testTime, testOptions())
	require.NoError(t, err)

	require.Len(t, res.Entities, 2)
	assert.Equal(t, "marketing-assets", res.Entities[0].Name)
	assert.Equal(t, "logs-2024", res.Entities[1].Name)
	assert.Equal(t, 1000, res.Entities[0].Port)
	assert.Equal(t, 1001, res.Entities[1].Port)

	for i, want := range []string{"1000", "1001"} {
		c := res.Specs[i].Workload.Spec.Template.Spec.Containers[0]
		assert.Equal(t, want, envValue(c, EnvPort))
		assert.Equal(t, res.Entities[i].Name, envValue(c, EnvBucketName))
	}

	paths := Paths(res.Ingress)
	require.Len(t, paths, 2)
	assert.Equal(t, "/marketing-assets", paths[0].Path)
	assert.Equal(t, "/logs-2024", paths[1].Path)

	assert.Empty(t, res.Collisions)
	assert.Empty(t, res.Problems)
}

func TestRun_Collision(t *testing.T) {
	res, err := Run([]string{"Data!!", "Data??"}, testTime, testOptions())
	require.NoError(t, err)

	require.Len(t, res.Entities, 2)
	assert.Equal(t, "data--", res.Entities[0].Name)
	assert.Equal(t, "data--", res.Entities[1].Name)
	assert.NotEqual(t, res.Entities[0].Port, res.Entities[1].Port)

	paths := Paths(res.Ingress)
	require.Len(t, paths, 2)
	assert.Equal(t, "/data--", paths[0].Path)
	assert.Equal(t, "/data--", paths[1].Path)

	require.Len(t, res.Collisions, 1)
	assert.Equal(t, naming.Collision{Name: "data--", Indexes: []int{0, 1}}, res.Collisions[0])
}

func TestRun_CollisionStrict(t *testing.T) {
	opts := testOptions()
	opts.Strict = true

	_, err := Run([]string{"Data!!", "Data??"}, testTime, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, naming.ErrNameCollision))

	var ce *naming.CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Len(t, ce.Collisions, 1)
}

func TestRun_Empty(t *testing.T) {
	for _, input := range [][]string{nil, {}, {"", "  "}} {
		res, err := Run(input, testTime, testOptions())
		require.NoError(t, err)

		assert.Empty(t, res.Entities)
		assert.Empty(t, res.Specs)
		require.NotNil(t, res.Ingress)
		assert.Empty(t, res.Ingress.Spec.Rules)
		assert.Equal(t, 1, res.Bundle().Len())
	}
}

func TestRun_InvalidNames(t *testing.T) {
	// "-x-" fails the bucket start/end rule and the DNS label rules.
	res, err := Run([]string{"-x-"}, testTime, testOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Problems)

	kinds := map[string]bool{}
	for _, p := range res.Problems {
		assert.Equal(t, 0, p.Index)
		assert.Equal(t, "-x-", p.Name)
		kinds[p.Kind] = true
	}
	assert.True(t, kinds["Bucket"])
	assert.True(t, kinds["Deployment"])

	opts := testOptions()
	opts.Strict = true
	_, err = Run([]string{"-x-"}, testTime, opts)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRun_BucketsDisabled(t *testing.T) {
	opts := testOptions()
	opts.Buckets = false

	// "ab" is too short for a bucket but fine everywhere else.
	res, err := Run([]string{"ab"}, testTime, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Problems)
	assert.Nil(t, res.Specs[0].Bucket)
	assert.Equal(t, 3, res.Bundle().Len())
}

func TestRun_StableStrategy(t *testing.T) {
	opts := testOptions()
	opts.PortStrategy = ports.StrategyStable

	first, err := Run([]string{"logs", "images"}, testTime, opts)
	require.NoError(t, err)
	second, err := Run([]string{"images", "new-entity", "logs"}, testTime, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Entities[0].Port, second.Entities[2].Port)
	assert.Equal(t, first.Entities[1].Port, second.Entities[0].Port)
}

func TestRun_PortOutOfRange(t *testing.T) {
	opts := testOptions()
	opts.BasePort = 65535

	_, err := Run([]string{"a", "b"}, testTime, opts)
	assert.ErrorIs(t, err, ports.ErrPortRange)
}

func TestRun_Deterministic(t *testing.T) {
	names := []string{"Marketing Assets", "logs-2024", "images"}
	a, err := Run(names, testTime, testOptions())
	require.NoError(t, err)
	b, err := Run(names, testTime, testOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Specs, b.Specs)
	assert.Equal(t, a.Ingress, b.Ingress)
}

func TestResult_BundleOrder(t *testing.T) {
	res, err := Run([]string{"alpha", "beta"}, testTime, testOptions())
	require.NoError(t, err)

	var kinds []string
	for _, obj := range res.Bundle().Objects() {
		kinds = append(kinds, obj.GetObjectKind().GroupVersionKind().Kind+"/"+obj.GetName())
	}
	assert.Equal(t, []string{
		"Bucket/alpha", "Bucket/beta",
		"Deployment/alpha", "Service/alpha",
		"Deployment/beta", "Service/beta",
		"Ingress/shared-ingress",
	}, kinds)
}

func TestBuildRoutingSpec_PreservesOrder(t *testing.T) {
	frags := []networkingv1.HTTPIngressPath{
		BuildRoute(Entity{Name: "f0", Port: 1000}),
		BuildRoute(Entity{Name: "f1", Port: 1001}),
		BuildRoute(Entity{Name: "f2", Port: 1002}),
	}
	opts := DefaultOptions().Ingress
	opts.Namespace = "apps"

	ing := BuildRoutingSpec(frags, opts)
	assert.Equal(t, frags, Paths(ing))
	assert.Equal(t, "shared-ingress", ing.Name)
	assert.Equal(t, "apps", ing.Namespace)
	require.NotNil(t, ing.Spec.IngressClassName)
	assert.Equal(t, "alb", *ing.Spec.IngressClassName)
	assert.Equal(t, "internet-facing", ing.Annotations["alb.ingress.kubernetes.io/scheme"])
	assert.Equal(t, "ip", ing.Annotations["alb.ingress.kubernetes.io/target-type"])

	// Mutating the input must not leak into the ingress.
	frags[0].Path = "/changed"
	assert.Equal(t, "/f0", Paths(ing)[0].Path)
}

func TestBuildRoutingSpec_Empty(t *testing.T) {
	ing := BuildRoutingSpec(nil, DefaultOptions().Ingress)
	assert.Empty(t, ing.Spec.Rules)
	assert.Empty(t, Paths(ing))
}
