package fanout

import (
	"strconv"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	s3v1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/s3/v1alpha1"
)

// Entity is one input line after sanitization and port allocation.
type Entity struct {
	Index int    `json:"index"`
	Raw   string `json:"raw"`
	Name  string `json:"name"`
	Port  int    `json:"port"`
}

// Path is the ingress path prefix routed to the entity.
func (e Entity) Path() string {
	return "/" + e.Name
}

// ContainerName is the name of the entity's workload container.
func (e Entity) ContainerName() string {
	return "container-" + e.Name
}

// EntitySpecs are the resources materialized for one entity.
type EntitySpecs struct {
	Workload *appsv1.Deployment
	Exposure *corev1.Service
	Route    networkingv1.HTTPIngressPath
	// Bucket is nil unless Options.Buckets is set.
	Bucket *s3v1alpha1.Bucket
}

// FormatTimestamp renders the run timestamp the way it appears in the
// revision annotation.
func FormatTimestamp(ts time.Time) string {
	return ts.Format(time.RFC3339Nano)
}

// BuildEntitySpecs builds the workload, exposure, route and bucket of e.
func BuildEntitySpecs(e Entity, ts time.Time, opts Options) EntitySpecs {
	specs := EntitySpecs{
		Workload: buildWorkload(e, ts, opts),
		Exposure: buildExposure(e, opts),
		Route:    BuildRoute(e),
	}
	if opts.Buckets {
		specs.Bucket = buildBucket(e)
	}
	return specs
}

func selectorLabels(e Entity) map[string]string {
	return map[string]string{AppLabel: e.Name}
}

func buildWorkload(e Entity, ts time.Time, opts Options) *appsv1.Deployment {
	port := int32(e.Port)

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      e.Name,
			Namespace: opts.Namespace,
			Labels:    selectorLabels(e),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](1),
			Selector: &metav1.LabelSelector{
				MatchLabels: selectorLabels(e),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: selectorLabels(e),
					Annotations: map[string]string{
						opts.RevisionAnnotation: FormatTimestamp(ts),
					},
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: opts.ServiceAccountName,
					Containers: []corev1.Container{{
						Name:            e.ContainerName(),
						Image:           opts.Image,
						ImagePullPolicy: opts.ImagePullPolicy,
						Env: []corev1.EnvVar{
							{Name: EnvBucketName, Value: e.Name},
							{Name: EnvPort, Value: strconv.Itoa(e.Port)},
						},
						Ports: []corev1.ContainerPort{{
							ContainerPort: port,
							Protocol:      corev1.ProtocolTCP,
						}},
					}},
				},
			},
		},
	}
}

func buildExposure(e Entity, opts Options) *corev1.Service {
	port := int32(e.Port)

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      e.Name,
			Namespace: opts.Namespace,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: selectorLabels(e),
			Ports: []corev1.ServicePort{{
				Port:       port,
				TargetPort: intstr.FromInt32(port),
				Protocol:   corev1.ProtocolTCP,
			}},
		},
	}
}

// BuildRoute returns the routing-rule fragment of e.
func BuildRoute(e Entity) networkingv1.HTTPIngressPath {
	return networkingv1.HTTPIngressPath{
		Path:     e.Path(),
		PathType: ptr.To(networkingv1.PathTypePrefix),
		Backend: networkingv1.IngressBackend{
			Service: &networkingv1.IngressServiceBackend{
				Name: e.Name,
				Port: networkingv1.ServiceBackendPort{Number: int32(e.Port)},
			},
		},
	}
}

func buildBucket(e Entity) *s3v1alpha1.Bucket {
	b := s3v1alpha1.NewBucket()
	b.Name = e.Name
	b.Spec = s3v1alpha1.BucketSpec{
		Name: e.Name,
		ACL:  ptr.To(s3v1alpha1.ACLPrivate),
	}
	return b
}
