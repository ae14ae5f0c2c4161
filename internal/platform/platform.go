// Package platform builds the cluster scaffolding the fanned-out workloads
// run on: IAM roles, the EKS cluster and node group, the ECR repository of
// the shared image, and the IRSA service account that grants the workloads
// S3 access. Everything is emitted as ACK custom resources so the same
// bundle can be applied to a management cluster running the ACK
// controllers.
package platform

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/lex00/wetwire-fanout-go/internal/config"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
	ecrv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/ecr/v1alpha1"
	eksv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/eks/v1alpha1"
	iamv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/iam/v1alpha1"
)

// RoleARNAnnotation binds a service account to an IAM role.
const RoleARNAnnotation = "eks.amazonaws.com/role-arn"

// Managed policies attached to the generated roles.
var (
	ClusterPolicies = []string{"AmazonEKSClusterPolicy"}
	NodePolicies    = []string{
		"AmazonEKSWorkerNodePolicy",
		"AmazonEC2ContainerRegistryReadOnly",
		"AmazonEKS_CNI_Policy",
	}
	StoragePolicies = []string{"AmazonS3FullAccess"}
)

// Objects is the generated scaffolding.
type Objects struct {
	ClusterRole    *iamv1alpha1.Role
	NodeRole       *iamv1alpha1.Role
	Cluster        *eksv1alpha1.Cluster
	Nodegroup      *eksv1alpha1.Nodegroup
	Repository     *ecrv1alpha1.Repository
	StorageRole    *iamv1alpha1.Role
	ServiceAccount *corev1.ServiceAccount

	// StorageRoleARN is the ARN the service account is annotated with.
	StorageRoleARN string
	// Image is the pull reference of the configured repository and tag.
	Image string
}

// List returns the objects in apply order.
func (o *Objects) List() []manifest.Object {
	return []manifest.Object{
		o.ClusterRole,
		o.NodeRole,
		o.Cluster,
		o.Nodegroup,
		o.Repository,
		o.StorageRole,
		o.ServiceAccount,
	}
}

// AppendTo adds the objects to b in apply order.
func (o *Objects) AppendTo(b *manifest.Bundle) {
	b.Add(o.List()...)
}

// Build generates the scaffolding for cfg. Workloads run in
// workloadNamespace under serviceAccount.
func Build(cfg config.Platform, workloadNamespace, serviceAccount string) (*Objects, error) {
	if err := checkAccountID(cfg.AccountID); err != nil {
		return nil, err
	}

	rn := resourceNames(cfg.ClusterName)
	ns := cfg.ACKNamespace

	storageARN := RoleARN(cfg.Partition, cfg.AccountID, rn.storageRole)
	providerHost := OIDCProviderHost(cfg.Region, cfg.Partition, cfg.OIDCProviderID)
	providerARN := OIDCProviderARN(cfg.Partition, cfg.AccountID, providerHost)
	for _, s := range []string{storageARN, providerARN} {
		if err := checkARN(s); err != nil {
			return nil, err
		}
	}

	objs := &Objects{
		ClusterRole: role(ns, rn.clusterRole, cfg.Partition,
			"EKS control plane role", serviceTrust("eks.amazonaws.com"), ClusterPolicies),
		NodeRole: role(ns, rn.nodeRole, cfg.Partition,
			"EKS worker node role", serviceTrust("ec2.amazonaws.com"), NodePolicies),
		StorageRole: role(ns, rn.storageRole, cfg.Partition,
			"S3 access for fanned-out workloads",
			webIdentityTrust(providerARN, providerHost, workloadNamespace, serviceAccount),
			StoragePolicies),
		StorageRoleARN: storageARN,
		Image:          RepositoryImage(cfg.AccountID, cfg.Region, cfg.Partition, cfg.Repository.Name, cfg.Repository.Tag),
	}
	objs.Cluster = cluster(ns, cfg, rn)
	objs.Nodegroup = nodegroup(ns, cfg, rn)
	objs.Repository = repository(ns, cfg.Repository)
	objs.ServiceAccount = &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:        serviceAccount,
			Namespace:   workloadNamespace,
			Annotations: map[string]string{RoleARNAnnotation: storageARN},
		},
	}
	return objs, nil
}

type roleNames struct {
	clusterRole string
	nodeRole    string
	storageRole string
}

func resourceNames(cluster string) roleNames {
	return roleNames{
		clusterRole: cluster + "-cluster-role",
		nodeRole:    cluster + "-node-role",
		storageRole: cluster + "-s3-full-access",
	}
}

func role(namespace, name, partition, description string, trust PolicyDocument, policies []string) *iamv1alpha1.Role {
	arns := make([]*string, len(policies))
	for i, p := range policies {
		arns[i] = ptr.To(ManagedPolicyARN(partition, p))
	}
	return &iamv1alpha1.Role{
		TypeMeta:   iamv1alpha1.TypeMeta("Role"),
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: iamv1alpha1.RoleSpec{
			Name:                     name,
			AssumeRolePolicyDocument: ptr.To(trust.String()),
			Description:              ptr.To(description),
			Policies:                 arns,
		},
	}
}

func reference(name string) *eksv1alpha1.AWSResourceReferenceWrapper {
	return &eksv1alpha1.AWSResourceReferenceWrapper{
		From: &eksv1alpha1.AWSResourceReference{Name: ptr.To(name)},
	}
}

func stringPtrs(in []string) []*string {
	out := make([]*string, len(in))
	for i := range in {
		out[i] = ptr.To(in[i])
	}
	return out
}

func cluster(namespace string, cfg config.Platform, n roleNames) *eksv1alpha1.Cluster {
	return &eksv1alpha1.Cluster{
		TypeMeta:   eksv1alpha1.TypeMeta("Cluster"),
		ObjectMeta: metav1.ObjectMeta{Name: cfg.ClusterName, Namespace: namespace},
		Spec: eksv1alpha1.ClusterSpec{
			Name:    cfg.ClusterName,
			Version: ptr.To(cfg.KubernetesVersion),
			RoleRef: reference(n.clusterRole),
			ResourcesVPCConfig: &eksv1alpha1.VPCConfigRequest{
				SubnetIDs:        stringPtrs(cfg.SubnetIDs),
				SecurityGroupIDs: stringPtrs(cfg.SecurityGroupIDs),
			},
			AccessConfig: &eksv1alpha1.CreateAccessConfigRequest{
				AuthenticationMode:                      ptr.To(eksv1alpha1.AuthenticationModeAPIAndConfigMap),
				BootstrapClusterCreatorAdminPermissions: ptr.To(true),
			},
			Tags: vpcTag(cfg.VPCID),
		},
	}
}

func vpcTag(vpcID string) map[string]*string {
	if vpcID == "" {
		return nil
	}
	return map[string]*string{"wetwire.io/vpc-id": ptr.To(vpcID)}
}

func nodegroup(namespace string, cfg config.Platform, n roleNames) *eksv1alpha1.Nodegroup {
	ng := cfg.NodeGroup
	return &eksv1alpha1.Nodegroup{
		TypeMeta:   eksv1alpha1.TypeMeta("Nodegroup"),
		ObjectMeta: metav1.ObjectMeta{Name: ng.Name, Namespace: namespace},
		Spec: eksv1alpha1.NodegroupSpec{
			Name:        ng.Name,
			ClusterRef:  reference(cfg.ClusterName),
			NodeRoleRef: reference(n.nodeRole),
			Subnets:     stringPtrs(cfg.SubnetIDs),
			ScalingConfig: &eksv1alpha1.NodegroupScalingConfig{
				MinSize:     ptr.To(ng.MinSize),
				MaxSize:     ptr.To(ng.MaxSize),
				DesiredSize: ptr.To(ng.DesiredSize),
			},
			InstanceTypes: stringPtrs(ng.InstanceTypes),
		},
	}
}

func repository(namespace string, cfg config.Repository) *ecrv1alpha1.Repository {
	r := ecrv1alpha1.NewRepository()
	r.Name = cfg.Name
	r.Namespace = namespace
	r.Spec = ecrv1alpha1.RepositorySpec{
		Name:               cfg.Name,
		ImageTagMutability: ptr.To(cfg.TagMutability),
	}
	if cfg.ScanOnPush != nil {
		r.Spec.ImageScanningConfiguration = &ecrv1alpha1.ImageScanningConfiguration{
			ScanOnPush: ptr.To(*cfg.ScanOnPush),
		}
	}
	return r
}

// String summarizes the generated scaffolding.
func (o *Objects) String() string {
	return fmt.Sprintf("cluster %s, nodegroup %s, repository %s, role %s",
		o.Cluster.Spec.Name, o.Nodegroup.Spec.Name, o.Repository.Spec.Name, o.StorageRoleARN)
}
