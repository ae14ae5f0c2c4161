package platform

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-fanout-go/internal/config"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
)

func testPlatform() config.Platform {
	p := config.Default().Platform
	p.Enabled = true
	p.AccountID = "123456789012"
	p.ClusterName = "demo"
	p.SubnetIDs = []string{"subnet-a", "subnet-b"}
	p.SecurityGroupIDs = []string{"sg-1"}
	p.OIDCProviderID = "ABCDEF0123456789"
	return p
}

func TestBuild(t *testing.T) {
	objs, err := Build(testPlatform(), "default", "s3-full-access")
	require.NoError(t, err)

	t.Run("roles", func(t *testing.T) {
		assert.Equal(t, "demo-cluster-role", objs.ClusterRole.Spec.Name)
		assert.Equal(t, "iam.services.k8s.aws/v1alpha1", objs.ClusterRole.APIVersion)
		require.Len(t, objs.ClusterRole.Spec.Policies, 1)
		assert.Equal(t, "arn:aws:iam::aws:policy/AmazonEKSClusterPolicy", *objs.ClusterRole.Spec.Policies[0])

		var trust PolicyDocument
		require.NoError(t, json.Unmarshal([]byte(*objs.NodeRole.Spec.AssumeRolePolicyDocument), &trust))
		assert.Equal(t, "ec2.amazonaws.com", trust.Statement[0].Principal["Service"])
		assert.Len(t, objs.NodeRole.Spec.Policies, 3)
	})

	t.Run("cluster", func(t *testing.T) {
		c := objs.Cluster
		assert.Equal(t, "Cluster", c.Kind)
		assert.Equal(t, "ack-system", c.Namespace)
		assert.Equal(t, "demo-cluster-role", *c.Spec.RoleRef.From.Name)
		assert.Len(t, c.Spec.ResourcesVPCConfig.SubnetIDs, 2)
		assert.Equal(t, "API_AND_CONFIG_MAP", *c.Spec.AccessConfig.AuthenticationMode)
		assert.True(t, *c.Spec.AccessConfig.BootstrapClusterCreatorAdminPermissions)
		assert.Equal(t, "1.30", *c.Spec.Version)
	})

	t.Run("nodegroup", func(t *testing.T) {
		ng := objs.Nodegroup
		assert.Equal(t, "demo", *ng.Spec.ClusterRef.From.Name)
		assert.Equal(t, "demo-node-role", *ng.Spec.NodeRoleRef.From.Name)
		assert.Equal(t, int64(1), *ng.Spec.ScalingConfig.MinSize)
		assert.Equal(t, int64(3), *ng.Spec.ScalingConfig.MaxSize)
		assert.Equal(t, int64(3), *ng.Spec.ScalingConfig.DesiredSize)
		require.Len(t, ng.Spec.InstanceTypes, 1)
		assert.Equal(t, "t3.large", *ng.Spec.InstanceTypes[0])
	})

	t.Run("repository", func(t *testing.T) {
		r := objs.Repository
		assert.Equal(t, "unleash-task", r.Spec.Name)
		assert.Equal(t, "MUTABLE", *r.Spec.ImageTagMutability)
		assert.True(t, *r.Spec.ImageScanningConfiguration.ScanOnPush)
		assert.Equal(t, "123456789012.dkr.ecr.us-east-1.amazonaws.com/unleash-task:latest", objs.Image)
	})

	t.Run("irsa", func(t *testing.T) {
		assert.Equal(t, "arn:aws:iam::123456789012:role/demo-s3-full-access", objs.StorageRoleARN)

		sa := objs.ServiceAccount
		assert.Equal(t, "s3-full-access", sa.Name)
		assert.Equal(t, "default", sa.Namespace)
		assert.Equal(t, objs.StorageRoleARN, sa.Annotations[RoleARNAnnotation])

		var trust PolicyDocument
		require.NoError(t, json.Unmarshal([]byte(*objs.StorageRole.Spec.AssumeRolePolicyDocument), &trust))
		st := trust.Statement[0]
		assert.Equal(t, "sts:AssumeRoleWithWebIdentity", st.Action)
		host := "oidc.eks.us-east-1.amazonaws.com/id/ABCDEF0123456789"
		assert.Equal(t, "arn:aws:iam::123456789012:oidc-provider/"+host, st.Principal["Federated"])
		assert.Equal(t, "system:serviceaccount:default:s3-full-access", st.Condition["StringEquals"][host+":sub"])
		assert.Equal(t, "sts.amazonaws.com", st.Condition["StringEquals"][host+":aud"])
	})
}

func TestBuild_ApplyOrder(t *testing.T) {
	objs, err := Build(testPlatform(), "default", "s3-full-access")
	require.NoError(t, err)

	var kinds []string
	for _, o := range objs.List() {
		kinds = append(kinds, o.GetObjectKind().GroupVersionKind().Kind)
	}
	assert.Equal(t, []string{"Role", "Role", "Cluster", "Nodegroup", "Repository", "Role", "ServiceAccount"}, kinds)

	b := &manifest.Bundle{}
	objs.AppendTo(b)
	_, err = manifest.ToYAML(b)
	assert.NoError(t, err)
}

func TestBuild_Account(t *testing.T) {
	p := testPlatform()
	p.AccountID = ""
	_, err := Build(p, "default", "sa")
	assert.ErrorIs(t, err, ErrMissingAccount)

	p.AccountID = "12345"
	_, err = Build(p, "default", "sa")
	assert.ErrorContains(t, err, "12 digits")
}

func TestPartitionSuffix(t *testing.T) {
	assert.Equal(t, "oidc.eks.cn-north-1.amazonaws.com.cn/id/X", OIDCProviderHost("cn-north-1", "aws-cn", "X"))
	assert.Equal(t, "arn:aws-cn:iam::aws:policy/AmazonS3FullAccess", ManagedPolicyARN("aws-cn", "AmazonS3FullAccess"))
	assert.Equal(t, "1.dkr.ecr.us-west-2.amazonaws.com/app:v1", RepositoryImage("1", "us-west-2", "aws", "app", "v1"))
}
