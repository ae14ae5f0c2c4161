// Package optimizer suggests security, cost, performance and reliability
// improvements for a generated bundle.
package optimizer

import (
	"fmt"
	"sort"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
)

// Categories accepted by Options.Category besides "all".
var Categories = []string{"security", "cost", "performance", "reliability"}

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions: "all", "security", "cost", "performance", "reliability"
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []wetwire.OptimizeSuggestion
	Summary     wetwire.OptimizeSummary
}

// Optimize applies every rule matching an object's kind to each object.
// Suggestions keep bundle order, then rule order.
func Optimize(objs []manifest.Object, opts Options) (*Result, error) {
	category := opts.Category
	if category == "" {
		category = "all"
	}
	if category != "all" && !validCategory(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	result := &Result{}
	for _, obj := range objs {
		result.Suggestions = append(result.Suggestions, analyzeObject(obj, category)...)
	}

	result.Summary = calculateSummary(result.Suggestions)
	return result, nil
}

func validCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// analyzeObject applies optimization rules to a single object.
func analyzeObject(obj manifest.Object, category string) []wetwire.OptimizeSuggestion {
	var suggestions []wetwire.OptimizeSuggestion

	kind := obj.GetObjectKind().GroupVersionKind().Kind
	for _, rule := range rulesFor(kind) {
		if category != "all" && rule.Category != category {
			continue
		}
		if !rule.Check(obj) {
			continue
		}
		suggestions = append(suggestions, wetwire.OptimizeSuggestion{
			Rule:       rule.ID,
			Resource:   manifest.Key(obj),
			Kind:       kind,
			Category:   rule.Category,
			Severity:   rule.Severity,
			Title:      rule.Title,
			Suggestion: rule.Suggestion,
		})
	}

	return suggestions
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []wetwire.OptimizeSuggestion) wetwire.OptimizeSummary {
	summary := wetwire.OptimizeSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case "security":
			summary.Security++
		case "cost":
			summary.Cost++
		case "performance":
			summary.Performance++
		case "reliability":
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}

// Rule is one optimization check. Check reports whether the suggestion
// applies to obj.
type Rule struct {
	ID         string
	Kind       string
	Category   string
	Severity   string
	Title      string
	Suggestion string
	Check      func(obj manifest.Object) bool
}

// rulesFor returns the rules registered for kind, ordered by ID.
func rulesFor(kind string) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
