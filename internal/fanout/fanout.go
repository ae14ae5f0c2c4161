package fanout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	networkingv1 "k8s.io/api/networking/v1"

	"github.com/lex00/wetwire-fanout-go/internal/manifest"
	"github.com/lex00/wetwire-fanout-go/internal/naming"
	"github.com/lex00/wetwire-fanout-go/internal/ports"
)

// ErrInvalidName is returned in strict mode when a sanitized name is not
// acceptable to one of the resource kinds it is used for.
var ErrInvalidName = errors.New("invalid resource name")

// Problem is a destination naming rule an entity violates.
type Problem struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("entity %d (%s): %s: %s", p.Index, p.Name, p.Kind, p.Message)
}

// Result is the output of one Run.
type Result struct {
	Timestamp  time.Time
	Entities   []Entity
	Specs      []EntitySpecs
	Ingress    *networkingv1.Ingress
	Collisions []naming.Collision
	Problems   []Problem
}

// Run sanitizes rawNames, allocates ports, builds the per-entity specs and
// aggregates every route into the shared ingress. Empty names are dropped
// before sanitization, so entity indexes count non-empty names only.
func Run(rawNames []string, ts time.Time, opts Options) (*Result, error) {
	log := opts.logger()

	raw := make([]string, 0, len(rawNames))
	for _, n := range rawNames {
		if n = strings.TrimSpace(n); n != "" {
			raw = append(raw, n)
		}
	}

	sanitized := naming.SanitizeAll(raw)

	allocator, err := ports.New(opts.PortStrategy, opts.BasePort)
	if err != nil {
		return nil, err
	}
	assigned, err := allocator.Assign(sanitized)
	if err != nil {
		return nil, fmt.Errorf("allocating ports: %w", err)
	}

	res := &Result{
		Timestamp: ts,
		Entities:  make([]Entity, len(raw)),
		Specs:     make([]EntitySpecs, len(raw)),
	}

	routes := make([]networkingv1.HTTPIngressPath, len(raw))
	for i := range raw {
		e := Entity{Index: i, Raw: raw[i], Name: sanitized[i], Port: assigned[i]}
		res.Entities[i] = e
		res.Specs[i] = BuildEntitySpecs(e, ts, opts)
		routes[i] = res.Specs[i].Route
		res.Problems = append(res.Problems, validateEntity(e, opts)...)

		log.Debug("built entity",
			zap.Int("index", i),
			zap.String("raw", e.Raw),
			zap.String("name", e.Name),
			zap.Int("port", e.Port))
	}

	ingressOpts := opts.Ingress
	if ingressOpts.Namespace == "" {
		ingressOpts.Namespace = opts.Namespace
	}
	res.Ingress = BuildRoutingSpec(routes, ingressOpts)

	res.Collisions = naming.FindCollisions(sanitized)
	for _, c := range res.Collisions {
		log.Warn("sanitized names collide", zap.String("name", c.Name), zap.Ints("indexes", c.Indexes))
	}
	for _, p := range res.Problems {
		log.Warn("invalid resource name",
			zap.Int("index", p.Index),
			zap.String("name", p.Name),
			zap.String("kind", p.Kind),
			zap.String("problem", p.Message))
	}

	if opts.Strict {
		if len(res.Collisions) > 0 {
			return nil, &naming.CollisionError{Collisions: res.Collisions}
		}
		if len(res.Problems) > 0 {
			msgs := make([]string, len(res.Problems))
			for i, p := range res.Problems {
				msgs[i] = p.String()
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidName, strings.Join(msgs, "; "))
		}
	}

	log.Info("fan-out complete",
		zap.Int("entities", len(res.Entities)),
		zap.Int("collisions", len(res.Collisions)),
		zap.Int("problems", len(res.Problems)))
	return res, nil
}

func validateEntity(e Entity, opts Options) []Problem {
	var out []Problem
	add := func(kind string, msgs []string) {
		for _, m := range msgs {
			out = append(out, Problem{Index: e.Index, Name: e.Name, Kind: kind, Message: m})
		}
	}
	if opts.Buckets {
		add("Bucket", naming.ValidateBucketName(e.Name))
	}
	add("Deployment", naming.ValidateObjectName(e.Name))
	add("Container", naming.ValidateContainerName(e.ContainerName()))
	add("Path", naming.ValidateIngressPath(e.Path()))
	return out
}

// Bundle returns the generated objects in apply order: buckets, then
// workloads and services per entity, then the ingress.
func (r *Result) Bundle() *manifest.Bundle {
	b := &manifest.Bundle{}
	r.AppendTo(b)
	return b
}

// AppendTo adds the generated objects to b in the order Bundle uses.
func (r *Result) AppendTo(b *manifest.Bundle) {
	for _, s := range r.Specs {
		if s.Bucket != nil {
			b.Add(s.Bucket)
		}
	}
	for _, s := range r.Specs {
		b.Add(s.Workload, s.Exposure)
	}
	b.Add(r.Ingress)
}
