package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/optimizer"
)

func newOptimizeCmd() *cobra.Command {
	var (
		flags        pipelineFlags
		category     string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Suggest improvements for the generated bundle",
		Long: `Optimize builds the bundle and reports security, cost, performance and
reliability suggestions for its objects.

Categories:
    security     Public access, broad IAM policies, image scanning
    cost         Tagging and node group sizing
    performance  Resource requests
    reliability  Replicas, probes and image tags

Examples:
    wetwire-fanout optimize
    wetwire-fanout optimize --platform --category security --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, &flags, category, outputFormat)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&category, "category", "all", "Category filter: all, security, cost, performance, reliability")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runOptimize(cmd *cobra.Command, flags *pipelineFlags, category, format string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := runPipeline(cmd.Context(), cmd, flags, log)
	if err != nil {
		return err
	}

	result, err := optimizer.Optimize(p.Bundle().Objects(), optimizer.Options{Category: category})
	if err != nil {
		return err
	}

	return outputOptimizeResult(cmd.OutOrStdout(), wetwire.OptimizeResult{
		Suggestions: result.Suggestions,
		Summary:     result.Summary,
	}, format)
}

func outputOptimizeResult(out io.Writer, result wetwire.OptimizeResult, format string) error {
	switch format {
	case "json":
		if result.Suggestions == nil {
			result.Suggestions = []wetwire.OptimizeSuggestion{}
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if len(result.Suggestions) == 0 {
			fmt.Fprintln(out, "No suggestions.")
			return nil
		}
		for _, s := range result.Suggestions {
			fmt.Fprintf(out, "[%s] %s (%s, %s)\n", s.Rule, s.Title, s.Category, s.Severity)
			fmt.Fprintf(out, "    %s\n", s.Resource)
			fmt.Fprintf(out, "    %s\n", s.Suggestion)
		}
		fmt.Fprintf(out, "\n%d suggestions: %d security, %d cost, %d performance, %d reliability\n",
			result.Summary.Total, result.Summary.Security, result.Summary.Cost,
			result.Summary.Performance, result.Summary.Reliability)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
