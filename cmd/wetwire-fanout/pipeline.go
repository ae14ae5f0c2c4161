package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"

	"github.com/lex00/wetwire-fanout-go/internal/awsid"
	"github.com/lex00/wetwire-fanout-go/internal/config"
	"github.com/lex00/wetwire-fanout-go/internal/fanout"
	"github.com/lex00/wetwire-fanout-go/internal/logging"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
	"github.com/lex00/wetwire-fanout-go/internal/names"
	"github.com/lex00/wetwire-fanout-go/internal/platform"
	"github.com/lex00/wetwire-fanout-go/internal/ports"
)

// debugLogging is the global --debug flag.
var debugLogging bool

// defaultNamesFile is the names list read when --names is not given.
const defaultNamesFile = "BUCKETS"

// newResolver returns the account resolver used by --resolve-account.
var newResolver = func(ctx context.Context, region string) (awsid.Resolver, error) {
	r, err := awsid.NewSTSResolver(ctx, region)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// pipelineFlags are the input flags shared by every command that runs the
// fan-out.
type pipelineFlags struct {
	namesFile      string
	configFile     string
	image          string
	basePort       int
	portStrategy   string
	timestamp      string
	strict         bool
	platform       bool
	resolveAccount bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.namesFile, "names", "n", defaultNamesFile, "File with one entity name per line")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Config file (default: "+config.DefaultPath+" if present)")
	cmd.Flags().StringVar(&f.image, "image", "", "Container image for every entity (overrides config)")
	cmd.Flags().IntVar(&f.basePort, "base-port", ports.DefaultBase, "First container port")
	cmd.Flags().StringVar(&f.portStrategy, "port-strategy", string(ports.StrategyPositional), "Port allocation: positional or stable")
	cmd.Flags().StringVar(&f.timestamp, "timestamp", "", "Revision timestamp, RFC 3339 (default: now)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Fail on name collisions and invalid resource names")
	cmd.Flags().BoolVar(&f.platform, "platform", false, "Also emit the EKS, IAM and ECR scaffolding")
	cmd.Flags().BoolVar(&f.resolveAccount, "resolve-account", false, "Look up the AWS account ID with STS when not configured")
}

// pipeline is the outcome of one fan-out run.
type pipeline struct {
	cfg      *config.Config
	result   *fanout.Result
	platform *platform.Objects
}

// Bundle returns platform objects, when present, followed by the fan-out.
func (p *pipeline) Bundle() *manifest.Bundle {
	b := &manifest.Bundle{}
	if p.platform != nil {
		p.platform.AppendTo(b)
	}
	p.result.AppendTo(b)
	return b
}

// newLogger builds the command logger from the global --debug flag.
func newLogger() (*zap.Logger, error) {
	return logging.Setup(debugLogging)
}

// loadConfig reads the config file and applies the flags that were set
// explicitly on cmd.
func loadConfig(cmd *cobra.Command, f *pipelineFlags) (*config.Config, error) {
	path, optional := f.configFile, false
	if path == "" {
		path, optional = config.DefaultPath, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("image") {
		cfg.Image = f.image
	}
	if flags.Changed("base-port") {
		cfg.BasePort = f.basePort
	}
	if flags.Changed("port-strategy") {
		cfg.PortStrategy = f.portStrategy
	}
	if f.strict {
		cfg.Strict = true
	}
	if f.platform {
		cfg.Platform.Enabled = true
	}
	return cfg, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --timestamp: %w", err)
	}
	return ts, nil
}

// fanoutOptions maps the configuration onto builder options.
func fanoutOptions(cfg *config.Config, log *zap.Logger) (fanout.Options, error) {
	strategy, err := ports.ParseStrategy(cfg.PortStrategy)
	if err != nil {
		return fanout.Options{}, err
	}
	opts := fanout.DefaultOptions()
	opts.Namespace = cfg.Namespace
	opts.Image = cfg.Image
	opts.ImagePullPolicy = corev1.PullPolicy(cfg.ImagePullPolicy)
	opts.ServiceAccountName = cfg.ServiceAccountName
	opts.RevisionAnnotation = cfg.RevisionAnnotation
	opts.Buckets = cfg.BucketsEnabled()
	opts.BasePort = cfg.BasePort
	opts.PortStrategy = strategy
	opts.Strict = cfg.Strict
	opts.Ingress = fanout.IngressOptions{
		Name:       cfg.Ingress.Name,
		Namespace:  cfg.Namespace,
		ClassName:  cfg.Ingress.ClassName,
		Scheme:     cfg.Ingress.Scheme,
		TargetType: cfg.Ingress.TargetType,
	}
	opts.Logger = log
	return opts, nil
}

// runPipeline reads the names, builds the platform scaffolding when
// enabled, and runs the fan-out. The timestamp is read once per call.
func runPipeline(ctx context.Context, cmd *cobra.Command, f *pipelineFlags, log *zap.Logger) (*pipeline, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(f.timestamp)
	if err != nil {
		return nil, err
	}

	p := &pipeline{cfg: cfg}
	if cfg.Platform.Enabled {
		if cfg.Platform.AccountID == "" && f.resolveAccount {
			resolver, err := newResolver(ctx, cfg.Platform.Region)
			if err != nil {
				return nil, err
			}
			if cfg.Platform.AccountID, err = resolver.AccountID(ctx); err != nil {
				return nil, err
			}
			log.Debug("resolved AWS account", zap.String("account", cfg.Platform.AccountID))
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		p.platform, err = platform.Build(cfg.Platform, cfg.Namespace, cfg.ServiceAccountName)
		if err != nil {
			return nil, err
		}
		if cfg.Image == "" {
			cfg.Image = p.platform.Image
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	raw, err := names.ReadFile(f.namesFile)
	if err != nil {
		return nil, err
	}
	log.Debug("read names", zap.String("file", f.namesFile), zap.Int("count", len(raw)))

	opts, err := fanoutOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	p.result, err = fanout.Run(raw, ts, opts)
	if err != nil {
		return nil, err
	}
	return p, nil
}
