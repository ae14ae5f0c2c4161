package fanout

import (
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

// BuildRoutingSpec wraps every fragment, in order, into one ingress. Paths
// are neither merged nor deduplicated; with overlapping paths the ingress
// controller's own precedence applies.
func BuildRoutingSpec(fragments []networkingv1.HTTPIngressPath, opts IngressOptions) *networkingv1.Ingress {
	ing := &networkingv1.Ingress{
		TypeMeta: metav1.TypeMeta{APIVersion: "networking.k8s.io/v1", Kind: "Ingress"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Annotations: map[string]string{
				annotationScheme:     opts.Scheme,
				annotationTargetType: opts.TargetType,
			},
		},
	}
	if opts.ClassName != "" {
		ing.Spec.IngressClassName = ptr.To(opts.ClassName)
	}
	if len(fragments) == 0 {
		return ing
	}

	paths := make([]networkingv1.HTTPIngressPath, len(fragments))
	copy(paths, fragments)
	ing.Spec.Rules = []networkingv1.IngressRule{{
		IngressRuleValue: networkingv1.IngressRuleValue{
			HTTP: &networkingv1.HTTPIngressRuleValue{Paths: paths},
		},
	}}
	return ing
}

// Paths returns the HTTP paths of ing in rule order.
func Paths(ing *networkingv1.Ingress) []networkingv1.HTTPIngressPath {
	var out []networkingv1.HTTPIngressPath
	for _, rule := range ing.Spec.Rules {
		if rule.HTTP == nil {
			continue
		}
		out = append(out, rule.HTTP.Paths...)
	}
	return out
}
