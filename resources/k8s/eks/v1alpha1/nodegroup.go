package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Nodegroup represents an ACK EKS Nodegroup resource.
// +kubebuilder:object:root=true
type Nodegroup struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec NodegroupSpec `json:"spec,omitempty"`
}

// NodegroupSpec defines the desired state of an EKS Nodegroup.
type NodegroupSpec struct {
	// Name is the unique name for the managed node group.
	Name string `json:"name"`

	// ClusterRef is a reference to a Cluster resource.
	ClusterRef *AWSResourceReferenceWrapper `json:"clusterRef,omitempty"`

	// NodeRoleRef is a reference to an IAM Role resource.
	NodeRoleRef *AWSResourceReferenceWrapper `json:"nodeRoleRef,omitempty"`

	// Subnets are the subnet IDs for the Auto Scaling group.
	Subnets []*string `json:"subnets,omitempty"`

	ScalingConfig *NodegroupScalingConfig `json:"scalingConfig,omitempty"`

	InstanceTypes []*string `json:"instanceTypes,omitempty"`

	Tags map[string]*string `json:"tags,omitempty"`
}

// NodegroupScalingConfig specifies the scaling configuration.
type NodegroupScalingConfig struct {
	MinSize     *int64 `json:"minSize,omitempty"`
	MaxSize     *int64 `json:"maxSize,omitempty"`
	DesiredSize *int64 `json:"desiredSize,omitempty"`
}
