// Package v1alpha1 contains the ACK S3 Bucket resource type.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GroupVersion is the API group and version of the ACK S3 controller.
var GroupVersion = schema.GroupVersion{Group: "s3.services.k8s.aws", Version: "v1alpha1"}

// Canned ACLs.
const (
	ACLPrivate    = "private"
	ACLPublicRead = "public-read"
)

// Bucket represents an ACK S3 Bucket resource.
// +kubebuilder:object:root=true
type Bucket struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec BucketSpec `json:"spec,omitempty"`
}

// BucketSpec defines the desired state of an S3 Bucket.
type BucketSpec struct {
	// Name is the globally unique bucket name.
	Name string `json:"name"`

	// ACL is the canned ACL applied to the bucket.
	ACL *string `json:"acl,omitempty"`

	Tagging *Tagging `json:"tagging,omitempty"`
}

// Tagging holds the bucket tag set.
type Tagging struct {
	TagSet []*Tag `json:"tagSet,omitempty"`
}

// Tag represents an AWS tag.
type Tag struct {
	Key   *string `json:"key,omitempty"`
	Value *string `json:"value,omitempty"`
}

// NewBucket returns a Bucket with TypeMeta filled in.
func NewBucket() *Bucket {
	return &Bucket{
		TypeMeta: metav1.TypeMeta{APIVersion: GroupVersion.String(), Kind: "Bucket"},
	}
}
