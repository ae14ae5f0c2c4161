package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Role represents an ACK IAM Role resource.
// +kubebuilder:object:root=true
type Role struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec RoleSpec `json:"spec,omitempty"`
}

// RoleSpec defines the desired state of an IAM Role.
type RoleSpec struct {
	// Name is the name of the role. The role ARN is derived from it.
	Name string `json:"name"`

	// AssumeRolePolicyDocument is the trust relationship policy document.
	AssumeRolePolicyDocument *string `json:"assumeRolePolicyDocument,omitempty"`

	Description *string `json:"description,omitempty"`

	// Policies are the ARNs of managed policies attached to the role.
	Policies []*string `json:"policies,omitempty"`

	Tags []*Tag `json:"tags,omitempty"`
}

// Tag represents an AWS tag.
type Tag struct {
	Key   *string `json:"key,omitempty"`
	Value *string `json:"value,omitempty"`
}
