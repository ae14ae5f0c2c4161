package fanout

import (
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"

	"github.com/lex00/wetwire-fanout-go/internal/ports"
)

// Defaults taken by DefaultOptions.
const (
	DefaultNamespace          = "default"
	DefaultServiceAccountName = "s3-full-access"
	DefaultRevisionAnnotation = "version"
	DefaultIngressName        = "shared-ingress"
	DefaultIngressClass       = "alb"
	DefaultIngressScheme      = "internet-facing"
	DefaultTargetType         = "ip"

	// Environment variables injected into every workload container.
	EnvBucketName = "BUCKET_NAME"
	EnvPort       = "PORT"

	// AppLabel selects the pods of one entity.
	AppLabel = "app"

	annotationScheme     = "alb.ingress.kubernetes.io/scheme"
	annotationTargetType = "alb.ingress.kubernetes.io/target-type"
)

// Options controls how specs are built.
type Options struct {
	// Namespace of every generated workload, service and the ingress.
	Namespace string

	// Image is the single container image shared by all workloads.
	Image           string
	ImagePullPolicy corev1.PullPolicy

	// ServiceAccountName is set on every pod template.
	ServiceAccountName string

	// RevisionAnnotation is the pod template annotation carrying the run
	// timestamp. It changes on every run so the orchestrator rolls the
	// workloads even when nothing else changed.
	RevisionAnnotation string

	// Buckets adds one S3 bucket per entity.
	Buckets bool

	BasePort     int
	PortStrategy ports.Strategy

	// Strict turns sanitized-name collisions and destination naming
	// problems into errors instead of warnings.
	Strict bool

	Ingress IngressOptions

	Logger *zap.Logger
}

// IngressOptions controls the shared ingress.
type IngressOptions struct {
	Name string
	// Namespace defaults to Options.Namespace when empty.
	Namespace  string
	ClassName  string
	Scheme     string
	TargetType string
}

// DefaultOptions returns the options for a single shared ALB in the default namespace.
func DefaultOptions() Options {
	return Options{
		Namespace:          DefaultNamespace,
		ImagePullPolicy:    corev1.PullAlways,
		ServiceAccountName: DefaultServiceAccountName,
		RevisionAnnotation: DefaultRevisionAnnotation,
		Buckets:            true,
		BasePort:           ports.DefaultBase,
		PortStrategy:       ports.StrategyPositional,
		Ingress: IngressOptions{
			Name:       DefaultIngressName,
			ClassName:  DefaultIngressClass,
			Scheme:     DefaultIngressScheme,
			TargetType: DefaultTargetType,
		},
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
