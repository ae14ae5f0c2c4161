package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-fanout-go/internal/config"
)

// validProjectName matches valid project directory names (alphanumeric, hyphens, underscores)
var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

const sampleNames = `Marketing Assets
logs-2024
images
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [project-name]",
		Short: "Create a new wetwire-fanout project",
		Long: `Init creates a project directory with a sample names file and a
configuration file holding the defaults.

Examples:
    wetwire-fanout init buckets     # Creates ./buckets/BUCKETS and ./buckets/wetwire-fanout.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), ".", args[0])
		},
	}
}

// runInit creates a new project in {workspaceDir}/{projectName}/
func runInit(out io.Writer, workspaceDir, projectName string) error {
	if !validProjectName.MatchString(projectName) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, hyphens, or underscores", projectName)
	}

	projectPath := filepath.Join(workspaceDir, projectName)
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("project already exists: %s", projectPath)
	}

	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(projectPath, defaultNamesFile), []byte(sampleNames), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", defaultNamesFile, err)
	}

	cfg := config.Default()
	cfg.Image = "public.ecr.aws/docker/library/nginx:latest"
	if err := config.Save(filepath.Join(projectPath, config.DefaultPath), &cfg); err != nil {
		return fmt.Errorf("writing %s: %w", config.DefaultPath, err)
	}

	if err := os.WriteFile(filepath.Join(projectPath, ".gitignore"), []byte("bundle.yaml\nbundle.json\n"), 0644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Fprintf(out, "Created %s/\n", projectPath)
	fmt.Fprintf(out, "  %s\n", defaultNamesFile)
	fmt.Fprintf(out, "  %s\n", config.DefaultPath)
	fmt.Fprintf(out, "  .gitignore\n")
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  cd %s\n", projectName)
	fmt.Fprintf(out, "  wetwire-fanout build -o bundle.yaml\n")
	return nil
}
