// Package wetwire_fanout defines the JSON contracts of the wetwire-fanout
// CLI.
//
// wetwire-fanout reads a list of entity names, one per line:
//
//	Marketing Assets
//	logs-2024
//
// and generates, per entity, an S3 bucket, a Deployment, a Service and an
// ingress path, plus one shared Ingress that routes every path:
//
//	wetwire-fanout build --names BUCKETS > bundle.yaml
//
// The commands print these types when run with --format json.
package wetwire_fanout

// Entity is one fanned-out name.
type Entity struct {
	Index int    `json:"index"`
	Raw   string `json:"raw"`
	Name  string `json:"name"`
	Port  int    `json:"port"`
	Path  string `json:"path"`
}

// Collision is a sanitized name produced by more than one input line.
type Collision struct {
	Name    string `json:"name"`
	Indexes []int  `json:"indexes"`
}

// Problem is a resource naming rule an entity violates.
type Problem struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BuildResult is the summary `wetwire-fanout build --output` prints.
type BuildResult struct {
	Success   bool     `json:"success"`
	Output    string   `json:"output,omitempty"`
	Timestamp string   `json:"timestamp"`
	Objects   []string `json:"objects,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// ValidateResult is the JSON output from `wetwire-fanout validate`.
type ValidateResult struct {
	Success    bool        `json:"success"`
	Entities   int         `json:"entities"`
	Collisions []Collision `json:"collisions,omitempty"`
	Problems   []Problem   `json:"problems,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

// ListResult is the JSON output from `wetwire-fanout list`.
type ListResult struct {
	Entities []Entity `json:"entities"`
}

// BundleDiff groups the objects that differ between two bundles.
type BundleDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffEntry is one object in a BundleDiff. Resource is the object key
// apiVersion/kind/namespace/name.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Kind     string   `json:"kind"`
	Changes  []string `json:"changes,omitempty"`
}

// DiffSummary counts the entries of a BundleDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// DiffResult is the JSON output from `wetwire-fanout diff`.
type DiffResult struct {
	Success bool        `json:"success"`
	Diff    BundleDiff  `json:"diff"`
	Summary DiffSummary `json:"summary"`
}

// OptimizeSuggestion is one finding of `wetwire-fanout optimize`.
type OptimizeSuggestion struct {
	Rule       string `json:"rule"`
	Resource   string `json:"resource"`
	Kind       string `json:"kind"`
	Category   string `json:"category"` // "security", "cost", "performance", "reliability"
	Severity   string `json:"severity"` // "high", "medium", "low"
	Title      string `json:"title"`
	Suggestion string `json:"suggestion"`
}

// OptimizeSummary counts suggestions by category.
type OptimizeSummary struct {
	Security    int `json:"security"`
	Cost        int `json:"cost"`
	Performance int `json:"performance"`
	Reliability int `json:"reliability"`
	Total       int `json:"total"`
}

// OptimizeResult is the JSON output from `wetwire-fanout optimize`.
type OptimizeResult struct {
	Suggestions []OptimizeSuggestion `json:"suggestions"`
	Summary     OptimizeSummary      `json:"summary"`
}
