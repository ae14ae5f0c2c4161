package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-fanout-go"
	"github.com/lex00/wetwire-fanout-go/internal/fanout"
	"github.com/lex00/wetwire-fanout-go/internal/manifest"
)

func newBuildCmd() *cobra.Command {
	var (
		flags        pipelineFlags
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the manifest bundle from a names file",
		Long: `Build reads one entity name per line and generates, per entity, an S3
bucket, a Deployment and a ClusterIP Service, plus one shared Ingress that
routes /<name> to each Service.

Examples:
    wetwire-fanout build
    wetwire-fanout build --names BUCKETS -o bundle.yaml
    wetwire-fanout build --format json --port-strategy stable
    wetwire-fanout build --platform --resolve-account`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, &flags, outputFormat, outputFile)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(cmd *cobra.Command, flags *pipelineFlags, format, outputFile string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := runPipeline(cmd.Context(), cmd, flags, log)
	if err != nil {
		return outputResult(cmd.OutOrStdout(), wetwire.BuildResult{
			Success: false,
			Errors:  []string{err.Error()},
		}, nil, format, outputFile)
	}

	bundle := p.Bundle()
	result := wetwire.BuildResult{
		Success:   true,
		Output:    outputFile,
		Timestamp: fanout.FormatTimestamp(p.result.Timestamp),
		Objects:   make([]string, 0, bundle.Len()),
	}
	for _, obj := range bundle.Objects() {
		result.Objects = append(result.Objects, manifest.Key(obj))
	}
	return outputResult(cmd.OutOrStdout(), result, bundle, format, outputFile)
}

func outputResult(out io.Writer, result wetwire.BuildResult, bundle *manifest.Bundle, format, outputFile string) error {
	// Handle build failures - output errors to stderr
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	data, err := manifest.Render(bundle, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		_, err = out.Write(data)
		return err
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d objects to %s (revision %s)\n", len(result.Objects), outputFile, result.Timestamp)
	return nil
}
