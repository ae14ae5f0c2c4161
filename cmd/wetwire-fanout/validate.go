package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/fanout"
)

func newValidateCmd() *cobra.Command {
	var (
		flags        pipelineFlags
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the names file and configuration",
		Long: `Validate runs the fan-out without writing manifests and reports sanitized
name collisions and names that S3 or Kubernetes would reject.

Examples:
    wetwire-fanout validate
    wetwire-fanout validate --names BUCKETS --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, &flags, outputFormat)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runValidate(cmd *cobra.Command, flags *pipelineFlags, format string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var result wetwire.ValidateResult
	p, err := runPipeline(cmd.Context(), cmd, flags, log)
	if err != nil {
		result.Errors = []string{err.Error()}
	} else {
		result = validateResult(p.result)
	}

	if err := outputValidateResult(cmd.OutOrStdout(), result, format); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func validateResult(res *fanout.Result) wetwire.ValidateResult {
	result := wetwire.ValidateResult{Entities: len(res.Entities)}
	for _, c := range res.Collisions {
		result.Collisions = append(result.Collisions, wetwire.Collision{Name: c.Name, Indexes: c.Indexes})
	}
	for _, p := range res.Problems {
		result.Problems = append(result.Problems, wetwire.Problem{
			Index:   p.Index,
			Name:    p.Name,
			Kind:    p.Kind,
			Message: p.Message,
		})
	}
	result.Success = len(result.Collisions) == 0 && len(result.Problems) == 0
	return result
}

func outputValidateResult(out io.Writer, result wetwire.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if result.Success {
			fmt.Fprintf(out, "Validation passed: %d entities OK\n", result.Entities)
			return nil
		}
		fmt.Fprintln(out, "Validation failed:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(out, "  ERROR: %s\n", errMsg)
		}
		for _, c := range result.Collisions {
			fmt.Fprintf(out, "  COLLISION: %q from entities %v\n", c.Name, c.Indexes)
		}
		for _, p := range result.Problems {
			fmt.Fprintf(out, "  INVALID: entity %d (%s) as %s: %s\n", p.Index, p.Name, p.Kind, p.Message)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
