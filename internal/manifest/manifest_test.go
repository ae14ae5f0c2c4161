package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	s3v1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/s3/v1alpha1"
)

func testBundle() *Bundle {
	bucket := s3v1alpha1.NewBucket()
	bucket.Name = "logs"
	bucket.Spec = s3v1alpha1.BucketSpec{Name: "logs", ACL: ptr.To(s3v1alpha1.ACLPrivate)}

	deploy := &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{Name: "logs", Namespace: "default"},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](1),
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{Containers: []corev1.Container{{Name: "container-logs", Image: "app:latest"}}},
			},
		},
	}

	b := &Bundle{}
	b.Add(bucket, deploy)
	return b
}

func TestKey(t *testing.T) {
	b := testBundle()
	assert.Equal(t, "s3.services.k8s.aws/v1alpha1/Bucket//logs", Key(b.Objects()[0]))
	assert.Equal(t, "apps/v1/Deployment/default/logs", Key(b.Objects()[1]))
}

func TestToMap_Prunes(t *testing.T) {
	m, err := ToMap(testBundle().Objects()[1])
	require.NoError(t, err)

	assert.NotContains(t, m, "status")
	meta := m["metadata"].(map[string]any)
	assert.NotContains(t, meta, "creationTimestamp")

	tmpl := m["spec"].(map[string]any)["template"].(map[string]any)
	assert.NotContains(t, tmpl, "metadata")
}

func TestToYAML(t *testing.T) {
	data, err := ToYAML(testBundle())
	require.NoError(t, err)

	out := string(data)
	assert.Equal(t, 1, strings.Count(out, "---\n"))
	assert.Contains(t, out, "kind: Bucket")
	assert.Contains(t, out, "acl: private")
	assert.Contains(t, out, "kind: Deployment")
	assert.NotContains(t, out, "creationTimestamp")
	assert.NotContains(t, out, "status")
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			data, err := Render(testBundle(), format)
			require.NoError(t, err)

			objs, err := Load(data)
			require.NoError(t, err)
			require.Len(t, objs, 2)
			assert.Equal(t, "s3.services.k8s.aws/v1alpha1/Bucket//logs", UnstructuredKey(objs[0]))
			assert.Equal(t, "apps/v1/Deployment/default/logs", UnstructuredKey(objs[1]))
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(testBundle(), "toml")
	assert.Error(t, err)
}

func TestLoad_SkipsEmptyDocuments(t *testing.T) {
	data := []byte("---\napiVersion: v1\nkind: Service\nmetadata:\n  name: a\n---\n\n---\napiVersion: v1\nkind: Service\nmetadata:\n  name: b\n")
	objs, err := Load(data)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "a", objs[0].GetName())
	assert.Equal(t, "b", objs[1].GetName())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load([]byte("kind: [unterminated"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	data, err := ToYAML(testBundle())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	objs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, objs, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
