package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/differ"
)

func newDiffCmd() *cobra.Command {
	var (
		outputFormat      string
		ignoreAnnotations []string
	)

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two rendered bundles",
		Long: `Diff compares two bundles written by build, in YAML or JSON, and reports
added, removed and modified objects. Inserting or reordering names under the
positional port strategy shows up here as port changes on every later
entity.

Examples:
    wetwire-fanout diff old.yaml new.yaml
    wetwire-fanout diff old.yaml new.yaml --ignore-annotation version
    wetwire-fanout diff old.json new.json --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), args[0], args[1], outputFormat, ignoreAnnotations)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringArrayVar(&ignoreAnnotations, "ignore-annotation", nil, "Annotation key to ignore (repeatable)")

	return cmd
}

func runDiff(out io.Writer, file1, file2, format string, ignoreAnnotations []string) error {
	result, err := differ.CompareFiles(file1, file2, differ.Options{
		IgnoreAnnotations: ignoreAnnotations,
	})
	if err != nil {
		return err
	}

	return outputDiffResult(out, wetwire.DiffResult{
		Success: true,
		Diff:    result.Diff,
		Summary: result.Summary,
	}, format)
}

func outputDiffResult(out io.Writer, result wetwire.DiffResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if result.Summary.Total == 0 {
			fmt.Fprintln(out, "No differences.")
			return nil
		}
		for _, e := range result.Diff.Added {
			fmt.Fprintf(out, "+ %s\n", e.Resource)
		}
		for _, e := range result.Diff.Removed {
			fmt.Fprintf(out, "- %s\n", e.Resource)
		}
		for _, e := range result.Diff.Modified {
			fmt.Fprintf(out, "~ %s\n", e.Resource)
			for _, c := range e.Changes {
				fmt.Fprintf(out, "    %s\n", c)
			}
		}
		fmt.Fprintf(out, "\n%d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
