// Package v1alpha1 contains ACK IAM resource types for Kubernetes-native AWS infrastructure management.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group and version of the ACK IAM controller.
var GroupVersion = schema.GroupVersion{Group: "iam.services.k8s.aws", Version: "v1alpha1"}

// TypeMeta returns the TypeMeta for kind in this group.
func TypeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: kind}
}
