package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-fanout-go/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var (
		flags         pipelineFlags
		format        string
		clusterByKind bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate a dependency graph of the bundle",
		Long: `Graph shows how the generated objects depend on each other: the Ingress
routes to Services, Services select Deployments, Deployments use their
bucket and service account, and the platform objects reference each other.

Examples:
    wetwire-fanout graph | dot -Tpng -o graph.png
    wetwire-fanout graph --format mermaid --platform`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, &flags, format, clusterByKind)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVar(&clusterByKind, "cluster", false, "Group objects by kind")

	return cmd
}

func runGraph(cmd *cobra.Command, flags *pipelineFlags, format string, clusterByKind bool) error {
	switch graph.Format(format) {
	case graph.FormatDOT, graph.FormatMermaid:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := runPipeline(cmd.Context(), cmd, flags, log)
	if err != nil {
		return err
	}

	gen := &graph.Generator{
		Format:        graph.Format(format),
		ClusterByKind: clusterByKind,
	}
	return gen.Generate(p.Bundle().Objects(), cmd.OutOrStdout())
}
