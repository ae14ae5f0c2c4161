// Package differ provides semantic comparison of rendered manifest bundles.
package differ

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
)

// Options configures the differ.
type Options struct {
	// IgnoreAnnotations lists annotation keys dropped from object and pod
	// template metadata before comparing, typically the revision
	// annotation that changes on every build.
	IgnoreAnnotations []string
}

// Result contains the difference between two bundles.
type Result struct {
	Diff    wetwire.BundleDiff
	Summary wetwire.DiffSummary
}

// annotationPaths are the metadata blocks IgnoreAnnotations applies to.
var annotationPaths = [][]string{
	{"metadata", "annotations"},
	{"spec", "template", "metadata", "annotations"},
}

// Compare compares two bundles and returns differences. Objects are
// matched by apiVersion/kind/namespace/name.
func Compare(bundle1, bundle2 []*unstructured.Unstructured, opts Options) (*Result, error) {
	result := &Result{}

	objs1 := index(bundle1, opts)
	objs2 := index(bundle2, opts)

	// Find added objects (in bundle2 but not in bundle1)
	for key, obj := range objs2 {
		if _, exists := objs1[key]; !exists {
			result.Diff.Added = append(result.Diff.Added, wetwire.DiffEntry{
				Resource: key,
				Kind:     obj.GetKind(),
			})
		}
	}

	// Find removed objects (in bundle1 but not in bundle2)
	for key, obj := range objs1 {
		if _, exists := objs2[key]; !exists {
			result.Diff.Removed = append(result.Diff.Removed, wetwire.DiffEntry{
				Resource: key,
				Kind:     obj.GetKind(),
			})
		}
	}

	// Find modified objects
	for key, obj1 := range objs1 {
		if obj2, exists := objs2[key]; exists {
			changes := compareFields("", obj1.Object, obj2.Object)
			if len(changes) > 0 {
				result.Diff.Modified = append(result.Diff.Modified, wetwire.DiffEntry{
					Resource: key,
					Kind:     obj1.GetKind(),
					Changes:  changes,
				})
			}
		}
	}

	// Sort entries for consistent output
	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = wetwire.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

// CompareFiles compares two rendered bundle files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	b1, err := manifest.LoadFile(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	b2, err := manifest.LoadFile(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(b1, b2, opts)
}

// index keys every object, without the ignored annotations. A key seen
// more than once, as happens when two entity names sanitize to the same
// value, gets a "#n" suffix in bundle order.
func index(objs []*unstructured.Unstructured, opts Options) map[string]*unstructured.Unstructured {
	out := make(map[string]*unstructured.Unstructured, len(objs))
	seen := make(map[string]int, len(objs))
	for _, obj := range objs {
		obj = obj.DeepCopy()
		stripAnnotations(obj, opts.IgnoreAnnotations)

		key := manifest.UnstructuredKey(obj)
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		out[key] = obj
	}
	return out
}

func stripAnnotations(obj *unstructured.Unstructured, keys []string) {
	if len(keys) == 0 {
		return
	}
	for _, path := range annotationPaths {
		ann, found, err := unstructured.NestedStringMap(obj.Object, path...)
		if err != nil || !found {
			continue
		}
		for _, k := range keys {
			delete(ann, k)
		}
		if len(ann) == 0 {
			unstructured.RemoveNestedField(obj.Object, path...)
			continue
		}
		_ = unstructured.SetNestedStringMap(obj.Object, ann, path...)
	}
}

// compareFields recursively compares field maps and returns dotted paths.
// Lists are compared as a whole.
func compareFields(prefix string, fields1, fields2 map[string]any) []string {
	var changes []string

	// Find added/modified fields
	for key, val2 := range fields2 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		val1, exists := fields1[key]
		if !exists {
			changes = append(changes, fmt.Sprintf("%s added", path))
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 {
			changes = append(changes, compareFields(path, m1, m2)...)
			continue
		}
		if !cmp.Equal(val1, val2, cmpopts.EquateEmpty()) {
			changes = append(changes, fmt.Sprintf("%s modified", path))
		}
	}

	// Find removed fields
	for key := range fields1 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if _, exists := fields2[key]; !exists {
			changes = append(changes, fmt.Sprintf("%s removed", path))
		}
	}

	sort.Strings(changes)
	return changes
}

// sortEntries sorts diff entries by object key.
func sortEntries(entries []wetwire.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
