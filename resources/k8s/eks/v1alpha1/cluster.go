package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Authentication modes accepted by ClusterAccessConfig.
const (
	AuthenticationModeAPI             = "API"
	AuthenticationModeAPIAndConfigMap = "API_AND_CONFIG_MAP"
	AuthenticationModeConfigMap       = "CONFIG_MAP"
)

// Cluster represents an ACK EKS Cluster resource.
// +kubebuilder:object:root=true
type Cluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ClusterSpec `json:"spec,omitempty"`
}

// ClusterSpec defines the desired state of an EKS Cluster.
type ClusterSpec struct {
	// Name is the unique name for the cluster.
	Name string `json:"name"`

	// Version is the Kubernetes version for the cluster.
	Version *string `json:"version,omitempty"`

	// RoleRef is a reference to the IAM Role of the control plane.
	RoleRef *AWSResourceReferenceWrapper `json:"roleRef,omitempty"`

	// ResourcesVPCConfig defines the VPC configuration for the cluster.
	ResourcesVPCConfig *VPCConfigRequest `json:"resourcesVPCConfig,omitempty"`

	// AccessConfig selects how IAM principals authenticate to the cluster.
	AccessConfig *CreateAccessConfigRequest `json:"accessConfig,omitempty"`

	Tags map[string]*string `json:"tags,omitempty"`
}

// VPCConfigRequest defines the VPC configuration request.
type VPCConfigRequest struct {
	SubnetIDs        []*string `json:"subnetIDs,omitempty"`
	SecurityGroupIDs []*string `json:"securityGroupIDs,omitempty"`
}

// CreateAccessConfigRequest is the access configuration set at cluster creation.
type CreateAccessConfigRequest struct {
	AuthenticationMode *string `json:"authenticationMode,omitempty"`

	// BootstrapClusterCreatorAdminPermissions grants the creating principal
	// cluster-admin through an access entry.
	BootstrapClusterCreatorAdminPermissions *bool `json:"bootstrapClusterCreatorAdminPermissions,omitempty"`
}

// AWSResourceReferenceWrapper wraps a reference to another ACK resource.
type AWSResourceReferenceWrapper struct {
	From *AWSResourceReference `json:"from,omitempty"`
}

// AWSResourceReference names an ACK resource in the same namespace.
type AWSResourceReference struct {
	Name *string `json:"name,omitempty"`
}
