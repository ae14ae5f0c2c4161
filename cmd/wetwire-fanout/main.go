// Command wetwire-fanout generates per-entity Kubernetes and ACK manifests
// from a list of names.
//
// Usage:
//
//	wetwire-fanout build --names BUCKETS      Generate the manifest bundle
//	wetwire-fanout validate                   Check names for collisions
//	wetwire-fanout list                       Show entities and ports
//	wetwire-fanout init myproject             Create new project
//	wetwire-fanout version                    Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wetwire-fanout",
		Short: "Fan a list of names out into Kubernetes manifests",
		Long: `wetwire-fanout turns a list of entity names into deployable manifests.

List one entity per line:

    Marketing Assets
    logs-2024

Every entity gets an S3 bucket, a Deployment, a ClusterIP Service and a
path on one shared ALB Ingress:

    wetwire-fanout build --names BUCKETS --image nginx:1.27 > bundle.yaml

Or start from a project created by init, whose config sets the image:

    wetwire-fanout init buckets && cd buckets && wetwire-fanout build`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable development logging")

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newListCmd(),
		newGraphCmd(),
		newDiffCmd(),
		newOptimizeCmd(),
		newWatchCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wetwire-fanout %s\n", getVersion())
		},
	}
}
