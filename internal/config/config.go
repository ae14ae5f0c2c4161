// Package config loads wetwire-fanout.yaml.
//
// A file only needs the fields that differ from Default; everything else
// is filled in by merging the defaults underneath the parsed values.
package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
	"k8s.io/utils/ptr"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "wetwire-fanout.yaml"

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full configuration of one build.
type Config struct {
	Namespace          string   `yaml:"namespace,omitempty"`
	BasePort           int      `yaml:"basePort,omitempty"`
	PortStrategy       string   `yaml:"portStrategy,omitempty"`
	Image              string   `yaml:"image,omitempty"`
	ImagePullPolicy    string   `yaml:"imagePullPolicy,omitempty"`
	ServiceAccountName string   `yaml:"serviceAccountName,omitempty"`
	RevisionAnnotation string   `yaml:"revisionAnnotation,omitempty"`
	Buckets            *bool    `yaml:"buckets,omitempty"`
	Strict             bool     `yaml:"strict,omitempty"`
	Ingress            Ingress  `yaml:"ingress,omitempty"`
	Platform           Platform `yaml:"platform,omitempty"`
}

// Ingress configures the shared ingress.
type Ingress struct {
	Name       string `yaml:"name,omitempty"`
	ClassName  string `yaml:"className,omitempty"`
	Scheme     string `yaml:"scheme,omitempty"`
	TargetType string `yaml:"targetType,omitempty"`
}

// Platform configures the cluster scaffolding emitted with --platform.
type Platform struct {
	Enabled           bool       `yaml:"enabled,omitempty"`
	AccountID         string     `yaml:"accountID,omitempty"`
	Region            string     `yaml:"region,omitempty"`
	Partition         string     `yaml:"partition,omitempty"`
	ClusterName       string     `yaml:"clusterName,omitempty"`
	KubernetesVersion string     `yaml:"kubernetesVersion,omitempty"`
	VPCID             string     `yaml:"vpcID,omitempty"`
	SubnetIDs         []string   `yaml:"subnetIDs,omitempty"`
	SecurityGroupIDs  []string   `yaml:"securityGroupIDs,omitempty"`
	OIDCProviderID    string     `yaml:"oidcProviderID,omitempty"`
	ACKNamespace      string     `yaml:"ackNamespace,omitempty"`
	NodeGroup         NodeGroup  `yaml:"nodeGroup,omitempty"`
	Repository        Repository `yaml:"repository,omitempty"`
}

// NodeGroup configures the managed node group.
type NodeGroup struct {
	Name          string   `yaml:"name,omitempty"`
	InstanceTypes []string `yaml:"instanceTypes,omitempty"`
	MinSize       int64    `yaml:"minSize,omitempty"`
	MaxSize       int64    `yaml:"maxSize,omitempty"`
	DesiredSize   int64    `yaml:"desiredSize,omitempty"`
}

// Repository configures the ECR repository holding the workload image.
type Repository struct {
	Name          string `yaml:"name,omitempty"`
	Tag           string `yaml:"tag,omitempty"`
	TagMutability string `yaml:"tagMutability,omitempty"`
	ScanOnPush    *bool  `yaml:"scanOnPush,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Namespace:          "default",
		BasePort:           1000,
		PortStrategy:       "positional",
		ImagePullPolicy:    "Always",
		ServiceAccountName: "s3-full-access",
		RevisionAnnotation: "version",
		Buckets:            ptr.To(true),
		Ingress: Ingress{
			Name:       "shared-ingress",
			ClassName:  "alb",
			Scheme:     "internet-facing",
			TargetType: "ip",
		},
		Platform: Platform{
			Region:            "us-east-1",
			Partition:         "aws",
			ClusterName:       "fanout",
			KubernetesVersion: "1.30",
			ACKNamespace:      "ack-system",
			NodeGroup: NodeGroup{
				Name:          "fanout-nodes",
				InstanceTypes: []string{"t3.large"},
				MinSize:       1,
				MaxSize:       3,
				DesiredSize:   3,
			},
			Repository: Repository{
				Name:          "unleash-task",
				Tag:           "latest",
				TagMutability: "MUTABLE",
				ScanOnPush:    ptr.To(true),
			},
		},
	}
}

// Load reads path and merges Default underneath it. With optional set, a
// missing file yields Default instead of an error.
func Load(path string, optional bool) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(content)
}

// Parse decodes YAML content and merges Default underneath it.
func Parse(content []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := mergo.Merge(&cfg, Default(), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}

// BucketsEnabled reports whether one bucket per entity is emitted.
func (c *Config) BucketsEnabled() bool {
	return c.Buckets == nil || *c.Buckets
}
