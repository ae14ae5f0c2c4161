// Package v1alpha1 contains ACK EKS resource types for Kubernetes-native AWS infrastructure management.
//
// Only the fields wetwire-fanout emits are modelled. The types serialize to
// the same JSON the ACK EKS controller accepts:
//
//	apiVersion: eks.services.k8s.aws/v1alpha1
//	kind: Cluster
//	spec:
//	  name: my-cluster
//	  roleRef:
//	    from:
//	      name: my-cluster-role
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group and version of the ACK EKS controller.
var GroupVersion = schema.GroupVersion{Group: "eks.services.k8s.aws", Version: "v1alpha1"}

// TypeMeta returns the TypeMeta for kind in this group.
func TypeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: kind}
}
