// Package manifest collects generated objects into an ordered bundle and
// renders it as multi-document YAML or a JSON v1/List.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"
)

// Object is anything with Kubernetes type and object metadata. Typed API
// objects and the ACK resource types in this module both satisfy it.
type Object interface {
	metav1.Object
	GetObjectKind() schema.ObjectKind
}

// Bundle is an ordered set of objects. Order is apply order.
type Bundle struct {
	objects []Object
}

// Add appends objects to the bundle.
func (b *Bundle) Add(objs ...Object) {
	b.objects = append(b.objects, objs...)
}

// Objects returns the objects in insertion order.
func (b *Bundle) Objects() []Object {
	return b.objects
}

// Len returns the number of objects.
func (b *Bundle) Len() int {
	return len(b.objects)
}

// Key identifies an object as apiVersion/kind/namespace/name.
func Key(obj Object) string {
	gvk := obj.GetObjectKind().GroupVersionKind()
	return key(gvk.GroupVersion().String(), gvk.Kind, obj.GetNamespace(), obj.GetName())
}

// UnstructuredKey is Key for loaded objects.
func UnstructuredKey(u *unstructured.Unstructured) string {
	return key(u.GetAPIVersion(), u.GetKind(), u.GetNamespace(), u.GetName())
}

func key(apiVersion, kind, namespace, name string) string {
	return strings.Join([]string{apiVersion, kind, namespace, name}, "/")
}

// ToMap converts a typed object to its JSON-shaped map, without status and
// without the null creationTimestamp the converter emits for unset metadata.
func ToMap(obj Object) (map[string]any, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", Key(obj), err)
	}
	delete(m, "status")
	prune(m)
	return m, nil
}

// prune removes nil values and empty maps left behind by the converter.
func prune(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			prune(val)
			if len(val) == 0 {
				delete(m, k)
			}
		case []any:
			for _, item := range val {
				if im, ok := item.(map[string]any); ok {
					prune(im)
				}
			}
		}
	}
}

// ToYAML renders the bundle as YAML documents separated by "---".
func ToYAML(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range b.objects {
		m, err := ToMap(obj)
		if err != nil {
			return nil, err
		}
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", Key(obj), err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// ToJSON renders the bundle as an indented v1/List.
func ToJSON(b *Bundle) ([]byte, error) {
	items := make([]map[string]any, 0, len(b.objects))
	for _, obj := range b.objects {
		m, err := ToMap(obj)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return json.MarshalIndent(map[string]any{
		"apiVersion": "v1",
		"kind":       "List",
		"items":      items,
	}, "", "  ")
}

// Render dispatches on format ("yaml" or "json").
func Render(b *Bundle, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		return ToYAML(b)
	case "json":
		return ToJSON(b)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// LoadFile reads a rendered bundle from path.
func LoadFile(path string) ([]*unstructured.Unstructured, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	objs, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return objs, nil
}

// Load parses either output of Render. A v1/List is flattened into its
// items; empty YAML documents are skipped.
func Load(data []byte) ([]*unstructured.Unstructured, error) {
	var objs []*unstructured.Unstructured
	for i, doc := range splitDocuments(data) {
		var m map[string]any
		if err := yaml.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if len(m) == 0 {
			continue
		}
		u := &unstructured.Unstructured{Object: m}
		if u.IsList() {
			list, err := u.ToList()
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
			for j := range list.Items {
				objs = append(objs, &list.Items[j])
			}
			continue
		}
		objs = append(objs, u)
	}
	return objs, nil
}

func splitDocuments(data []byte) [][]byte {
	var docs [][]byte
	var cur bytes.Buffer
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if strings.TrimRight(string(line), "\r\n") == "---" {
			docs = append(docs, append([]byte(nil), cur.Bytes()...))
			cur.Reset()
			continue
		}
		cur.Write(line)
	}
	docs = append(docs, cur.Bytes())
	return docs
}
