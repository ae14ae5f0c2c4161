// Package graph generates DOT and Mermaid dependency graphs of a manifest
// bundle.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/lex00/wetwire-fanout-go/internal/manifest"
	ecrv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/ecr/v1alpha1"
	eksv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/eks/v1alpha1"
	iamv1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/iam/v1alpha1"
	s3v1alpha1 "github.com/lex00/wetwire-fanout-go/resources/k8s/s3/v1alpha1"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

const (
	envBucketName     = "BUCKET_NAME"
	roleARNAnnotation = "eks.amazonaws.com/role-arn"
)

// Generator creates dependency graphs from bundles.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByKind groups objects of the same kind into a subgraph.
	ClusterByKind bool
}

// Edge is a dependency from one object to another, both identified by
// kind/name.
type Edge struct {
	From string
	To   string
	// Ref marks ACK resource references and IAM role bindings, as opposed
	// to label selection and naming conventions.
	Ref bool
}

// Generate creates a dependency graph and writes it to w.
func (g *Generator) Generate(objs []manifest.Object, w io.Writer) error {
	graph := g.buildGraph(objs)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(objs []manifest.Object) (string, error) {
	var sb strings.Builder
	if err := g.Generate(objs, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(objs []manifest.Object) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	// Set default node style
	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	// Set default edge style
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	nodes := make(map[string]dot.Node, len(objs))
	if g.ClusterByKind {
		g.addClusteredNodes(graph, objs, nodes)
	} else {
		g.addNodes(graph, objs, nodes)
	}

	for _, edge := range Edges(objs) {
		e := graph.Edge(nodes[edge.From], nodes[edge.To])
		if edge.Ref {
			e.Attr("color", "blue")
		}
	}

	return graph
}

func nodeID(obj manifest.Object) string {
	return kindOf(obj) + "/" + obj.GetName()
}

func kindOf(obj manifest.Object) string {
	return obj.GetObjectKind().GroupVersionKind().Kind
}

func label(obj manifest.Object) string {
	return obj.GetName() + "\\n[" + kindOf(obj) + "]"
}

// addNodes adds object nodes without clustering.
func (g *Generator) addNodes(graph *dot.Graph, objs []manifest.Object, nodes map[string]dot.Node) {
	for _, obj := range objs {
		nodes[nodeID(obj)] = graph.Node(nodeID(obj)).Label(label(obj))
	}
}

// addClusteredNodes adds object nodes grouped by kind. Nodes live in their
// kind's subgraph, so edges must use the recorded nodes.
func (g *Generator) addClusteredNodes(graph *dot.Graph, objs []manifest.Object, nodes map[string]dot.Node) {
	var kinds []string
	byKind := make(map[string][]manifest.Object)
	for _, obj := range objs {
		k := kindOf(obj)
		if _, ok := byKind[k]; !ok {
			kinds = append(kinds, k)
		}
		byKind[k] = append(byKind[k], obj)
	}

	for _, k := range kinds {
		members := byKind[k]
		if len(members) == 1 {
			// Single object, no cluster needed
			nodes[nodeID(members[0])] = graph.Node(nodeID(members[0])).Label(label(members[0]))
			continue
		}
		cluster := graph.Subgraph("cluster_"+k, dot.ClusterOption{})
		cluster.Attr("label", k)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, obj := range members {
			nodes[nodeID(obj)] = cluster.Node(nodeID(obj)).Label(label(obj))
		}
	}
}

// Edges derives the dependencies between objects of the bundle. Edges to
// objects outside the bundle are dropped. Duplicates are removed; order
// follows the bundle.
func Edges(objs []manifest.Object) []Edge {
	present := make(map[string]bool, len(objs))
	var deployments []*appsv1.Deployment
	var repositories []*ecrv1alpha1.Repository
	var roles []*iamv1alpha1.Role
	for _, obj := range objs {
		present[nodeID(obj)] = true
		switch o := obj.(type) {
		case *appsv1.Deployment:
			deployments = append(deployments, o)
		case *ecrv1alpha1.Repository:
			repositories = append(repositories, o)
		case *iamv1alpha1.Role:
			roles = append(roles, o)
		}
	}

	var edges []Edge
	seen := make(map[Edge]bool)
	add := func(from manifest.Object, toKind, toName string, ref bool) {
		e := Edge{From: nodeID(from), To: toKind + "/" + toName, Ref: ref}
		if !present[e.To] || seen[e] {
			return
		}
		seen[e] = true
		edges = append(edges, e)
	}
	addRef := func(from manifest.Object, toKind string, ref *eksv1alpha1.AWSResourceReferenceWrapper) {
		if ref != nil && ref.From != nil && ref.From.Name != nil {
			add(from, toKind, *ref.From.Name, true)
		}
	}

	for _, obj := range objs {
		switch o := obj.(type) {
		case *networkingv1.Ingress:
			for _, rule := range o.Spec.Rules {
				if rule.HTTP == nil {
					continue
				}
				for _, p := range rule.HTTP.Paths {
					if p.Backend.Service != nil {
						add(o, "Service", p.Backend.Service.Name, false)
					}
				}
			}
		case *corev1.Service:
			for _, d := range deployments {
				if d.Namespace == o.Namespace && selects(o.Spec.Selector, d.Spec.Template.Labels) {
					add(o, "Deployment", d.Name, false)
				}
			}
		case *appsv1.Deployment:
			pod := o.Spec.Template.Spec
			if pod.ServiceAccountName != "" {
				add(o, "ServiceAccount", pod.ServiceAccountName, false)
			}
			for _, c := range pod.Containers {
				for _, env := range c.Env {
					if env.Name == envBucketName {
						add(o, "Bucket", env.Value, false)
					}
				}
				for _, r := range repositories {
					if strings.Contains(c.Image, "/"+r.Spec.Name+":") {
						add(o, "Repository", r.Name, false)
					}
				}
			}
		case *corev1.ServiceAccount:
			if arn := o.Annotations[roleARNAnnotation]; arn != "" {
				for _, r := range roles {
					if strings.HasSuffix(arn, ":role/"+r.Spec.Name) {
						add(o, "Role", r.Name, true)
					}
				}
			}
		case *eksv1alpha1.Cluster:
			addRef(o, "Role", o.Spec.RoleRef)
		case *eksv1alpha1.Nodegroup:
			addRef(o, "Cluster", o.Spec.ClusterRef)
			addRef(o, "Role", o.Spec.NodeRoleRef)
		case *s3v1alpha1.Bucket, *iamv1alpha1.Role, *ecrv1alpha1.Repository:
			// Leaves.
		}
	}
	return edges
}

// selects reports whether a service selector picks a pod template. An
// empty selector selects nothing.
func selects(selector, podLabels map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	return labels.SelectorFromSet(selector).Matches(labels.Set(podLabels))
}
