// Package v1alpha1 contains the ACK ECR Repository resource type.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group and version of the ACK ECR controller.
var GroupVersion = schema.GroupVersion{Group: "ecr.services.k8s.aws", Version: "v1alpha1"}

// Image tag mutability settings.
const (
	TagMutable   = "MUTABLE"
	TagImmutable = "IMMUTABLE"
)

// Repository represents an ACK ECR Repository resource.
// +kubebuilder:object:root=true
type Repository struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec RepositorySpec `json:"spec,omitempty"`
}

// RepositorySpec defines the desired state of an ECR Repository.
type RepositorySpec struct {
	Name string `json:"name"`

	ImageTagMutability *string `json:"imageTagMutability,omitempty"`

	ImageScanningConfiguration *ImageScanningConfiguration `json:"imageScanningConfiguration,omitempty"`
}

// ImageScanningConfiguration controls scanning of pushed images.
type ImageScanningConfiguration struct {
	ScanOnPush *bool `json:"scanOnPush,omitempty"`
}

// NewRepository returns a Repository with TypeMeta filled in.
func NewRepository() *Repository {
	return &Repository{
		TypeMeta: metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: "Repository"},
	}
}
